package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cpclub/clubhub/models"
	"github.com/cpclub/clubhub/permissions"
	"github.com/cpclub/clubhub/store"
	"github.com/cpclub/clubhub/utils"
	"github.com/cpclub/clubhub/validation"
)

const (
	blogNotFoundMessage  = "Blog post not found"
	blogDuplicateMessage = "A blog with this title or slug already exists"

	blogAdminCachePrefix  = "cache:blogs:admin:"
	blogPublicCachePrefix = "cache:blogs:public:"
	blogDetailCachePrefix = "cache:blogs:detail:"
)

// BlogController manages CRUD operations for blog posts behind the
// manage_blog_posts capability.
type BlogController struct {
	store BlogStore

	cacheGet   func(key string) ([]byte, bool)
	cacheSet   func(key string, v interface{}, ttl time.Duration)
	invalidate func(prefix string)
}

// NewBlogController creates a BlogController backed by Redis response caching.
func NewBlogController(store BlogStore) *BlogController {
	return &BlogController{
		store:      store,
		cacheGet:   utils.CacheGetBytes,
		cacheSet:   utils.CacheSetJSON,
		invalidate: utils.InvalidateByPrefix,
	}
}

// CreateBlog validates the form, gates the mutation, and inserts the post.
func (b *BlogController) CreateBlog(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageBlogPosts); !ok {
		return
	}

	var form validation.BlogForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	form.Normalize()
	if err := validation.Struct(form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}
	publishedAt, err := validation.ParsePublishedAt(form.PublishedAt)
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	post := modelFromForm(form, publishedAt)
	if err := b.store.Create(ctx.Request.Context(), post); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			utils.Fail(ctx, http.StatusConflict, blogDuplicateMessage)
			return
		}
		internalError(ctx, "create blog", err)
		return
	}

	// Required post-condition: the admin and public list views must not
	// serve stale pages after a successful mutation.
	b.invalidate(blogAdminCachePrefix)
	b.invalidate(blogPublicCachePrefix)

	utils.SuccessMessage(ctx, post, "Blog post created")
}

// UpdateBlog applies a validated partial merge onto an existing post.
func (b *BlogController) UpdateBlog(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageBlogPosts); !ok {
		return
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, blogNotFoundMessage)
		return
	}

	var form validation.BlogForm
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	form.Normalize()
	if err := validation.Struct(form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}
	publishedAt, err := validation.ParsePublishedAt(form.PublishedAt)
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	post, err := b.store.Update(ctx.Request.Context(), id, store.PostUpdate{
		Title:         form.Title,
		Slug:          form.Slug,
		Author:        form.Author,
		Content:       utils.Sanitize(form.Content),
		Status:        form.Status,
		FeaturedImage: form.FeaturedImage,
		PublishedAt:   publishedAt,
		Featured:      form.Featured,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.Fail(ctx, http.StatusNotFound, blogNotFoundMessage)
		case errors.Is(err, store.ErrDuplicate):
			utils.Fail(ctx, http.StatusConflict, blogDuplicateMessage)
		default:
			internalError(ctx, "update blog", err)
		}
		return
	}

	b.invalidate(blogAdminCachePrefix)
	b.invalidate(blogPublicCachePrefix)
	b.invalidate(blogDetailCachePrefix + ctx.Param("id"))

	utils.SuccessMessage(ctx, post, "Blog post updated")
}

// DeleteBlog removes a post and reports its title in the success message.
func (b *BlogController) DeleteBlog(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageBlogPosts); !ok {
		return
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, blogNotFoundMessage)
		return
	}

	post, err := b.store.Delete(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(ctx, http.StatusNotFound, blogNotFoundMessage)
			return
		}
		internalError(ctx, "delete blog", err)
		return
	}

	b.invalidate(blogAdminCachePrefix)
	b.invalidate(blogPublicCachePrefix)
	b.invalidate(blogDetailCachePrefix + ctx.Param("id"))

	utils.SuccessMessage(ctx, nil, fmt.Sprintf("Blog post %q deleted", post.Title))
}

// GetBlog returns the full projected record for the admin detail view.
func (b *BlogController) GetBlog(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageBlogPosts); !ok {
		return
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, blogNotFoundMessage)
		return
	}

	cacheKey := blogDetailCachePrefix + ctx.Param("id")
	if body, ok := b.cacheGet(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", body)
		return
	}

	post, err := b.store.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(ctx, http.StatusNotFound, blogNotFoundMessage)
			return
		}
		internalError(ctx, "get blog", err)
		return
	}

	b.cacheSet(cacheKey, utils.Envelope{Success: true, Data: post}, time.Hour)
	utils.Success(ctx, post)
}

// ListBlogs returns one admin page, optionally filtered by a search term
// matched case-insensitively against title, author and content.
func (b *BlogController) ListBlogs(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageBlogPosts); !ok {
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := ctx.Query("search")

	// Cache only unfiltered pages to avoid cache key explosion
	cacheKey := fmt.Sprintf("%spage=%d:size=%d", blogAdminCachePrefix, page, pageSize)
	if search == "" {
		if body, ok := b.cacheGet(cacheKey); ok {
			ctx.Data(http.StatusOK, "application/json", body)
			return
		}
	}

	posts, pagination, err := b.store.List(ctx.Request.Context(), page, pageSize, search)
	if err != nil {
		internalError(ctx, "list blogs", err)
		return
	}

	payload := gin.H{"items": posts, "pagination": pagination}
	if search == "" {
		b.cacheSet(cacheKey, utils.Envelope{Success: true, Data: payload}, time.Hour)
	}
	utils.Success(ctx, payload)
}

// ListPublishedBlogs serves the public list view; published posts only.
func (b *BlogController) ListPublishedBlogs(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	cacheKey := fmt.Sprintf("%spage=%d:size=%d", blogPublicCachePrefix, page, pageSize)
	if body, ok := b.cacheGet(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", body)
		return
	}

	posts, pagination, err := b.store.ListPublished(ctx.Request.Context(), page, pageSize)
	if err != nil {
		internalError(ctx, "list published blogs", err)
		return
	}

	payload := gin.H{"items": posts, "pagination": pagination}
	b.cacheSet(cacheKey, utils.Envelope{Success: true, Data: payload}, time.Hour)
	utils.Success(ctx, payload)
}

// GetPublishedBlog serves the public detail view; drafts and archived posts
// stay invisible and read as not found.
func (b *BlogController) GetPublishedBlog(ctx *gin.Context) {
	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, blogNotFoundMessage)
		return
	}

	// Keyed under the public prefix so blog mutations drop it with the list pages.
	cacheKey := fmt.Sprintf("%sdetail:%d", blogPublicCachePrefix, id)
	if body, ok := b.cacheGet(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", body)
		return
	}

	post, err := b.store.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(ctx, http.StatusNotFound, blogNotFoundMessage)
			return
		}
		internalError(ctx, "get published blog", err)
		return
	}
	if post.Status != models.PostStatusPublished {
		utils.Fail(ctx, http.StatusNotFound, blogNotFoundMessage)
		return
	}

	b.cacheSet(cacheKey, utils.Envelope{Success: true, Data: post}, time.Hour)
	utils.Success(ctx, post)
}

func modelFromForm(form validation.BlogForm, publishedAt *time.Time) *models.Post {
	return &models.Post{
		Title:         form.Title,
		Slug:          form.Slug,
		Author:        form.Author,
		Content:       utils.Sanitize(form.Content),
		Status:        form.Status,
		FeaturedImage: form.FeaturedImage,
		PublishedAt:   publishedAt,
		Featured:      form.Featured,
	}
}
