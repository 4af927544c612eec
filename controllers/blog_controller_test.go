package controllers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpclub/clubhub/models"
	"github.com/cpclub/clubhub/permissions"
)

func validBlogPayload() map[string]interface{} {
	return map[string]interface{}{
		"title":   "Hello World",
		"slug":    "hello",
		"author":  "alice",
		"content": "<p>first post</p>",
		"status":  "draft",
	}
}

func TestCreateBlogSuccess(t *testing.T) {
	fake := newFakeBlogStore()
	ctrl, invalidated := newTestBlogController(fake)

	ctx, w := newTestContext(t, http.MethodPost, "/admin/blogs", validBlogPayload())
	asAdmin(ctx)
	ctrl.CreateBlog(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Blog post created", env.Message)
	assert.Len(t, fake.posts, 1)
	assert.Contains(t, *invalidated, blogAdminCachePrefix)
	assert.Contains(t, *invalidated, blogPublicCachePrefix)
}

func TestCreateBlogDuplicateSlug(t *testing.T) {
	fake := newFakeBlogStore()
	ctrl, _ := newTestBlogController(fake)

	ctx, w := newTestContext(t, http.MethodPost, "/admin/blogs", validBlogPayload())
	asAdmin(ctx)
	ctrl.CreateBlog(ctx)
	require.Equal(t, http.StatusOK, w.Code)

	// Same slug, different title; the collision must surface as a conflict.
	payload := validBlogPayload()
	payload["title"] = "Another Title"
	ctx, w = newTestContext(t, http.MethodPost, "/admin/blogs", payload)
	asAdmin(ctx)
	ctrl.CreateBlog(ctx)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, blogDuplicateMessage, env.Error)
	assert.Len(t, fake.posts, 1)
}

func TestCreateBlogValidationFailureDoesNotTouchStore(t *testing.T) {
	fake := newFakeBlogStore()
	ctrl, invalidated := newTestBlogController(fake)

	payload := validBlogPayload()
	payload["title"] = ""
	ctx, w := newTestContext(t, http.MethodPost, "/admin/blogs", payload)
	asAdmin(ctx)
	ctrl.CreateBlog(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, "title is required", env.Error)
	assert.Zero(t, fake.createCalls, "invalid input must never reach the store")
	assert.Empty(t, *invalidated)
}

func TestCreateBlogBadPublishedAt(t *testing.T) {
	fake := newFakeBlogStore()
	ctrl, _ := newTestBlogController(fake)

	payload := validBlogPayload()
	payload["published_at"] = "yesterday"
	ctx, w := newTestContext(t, http.MethodPost, "/admin/blogs", payload)
	asAdmin(ctx)
	ctrl.CreateBlog(ctx)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, fake.createCalls)
}

func TestCreateBlogDeniedForMember(t *testing.T) {
	fake := newFakeBlogStore()
	ctrl, _ := newTestBlogController(fake)

	ctx, w := newTestContext(t, http.MethodPost, "/admin/blogs", validBlogPayload())
	asMember(ctx)
	ctrl.CreateBlog(ctx)

	assert.Equal(t, http.StatusForbidden, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, permissions.DeniedMessage, env.Error)
	assert.Zero(t, fake.createCalls)
}

func TestCreateBlogSanitizesContent(t *testing.T) {
	fake := newFakeBlogStore()
	ctrl, _ := newTestBlogController(fake)

	payload := validBlogPayload()
	payload["content"] = `<p>hi</p><script>alert(1)</script>`
	ctx, _ := newTestContext(t, http.MethodPost, "/admin/blogs", payload)
	asAdmin(ctx)
	ctrl.CreateBlog(ctx)

	require.Len(t, fake.posts, 1)
	for _, post := range fake.posts {
		assert.NotContains(t, post.Content, "<script>")
		assert.Contains(t, post.Content, "<p>hi</p>")
	}
}

func TestUpdateBlogSuccess(t *testing.T) {
	fake := newFakeBlogStore()
	fake.posts[1] = &models.Post{ID: 1, Title: "Old", Slug: "old", Author: "alice", Content: "x", Status: "draft"}
	fake.nextID = 2
	ctrl, invalidated := newTestBlogController(fake)

	payload := validBlogPayload()
	payload["status"] = "published"
	ctx, w := newTestContext(t, http.MethodPut, "/admin/blogs/1", payload)
	asAdmin(ctx)
	setParam(ctx, "id", "1")
	ctrl.UpdateBlog(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello World", fake.posts[1].Title)
	assert.Equal(t, "published", fake.posts[1].Status)
	assert.Contains(t, *invalidated, blogDetailCachePrefix+"1")
}

func TestUpdateBlogNotFound(t *testing.T) {
	ctrl, _ := newTestBlogController(newFakeBlogStore())

	ctx, w := newTestContext(t, http.MethodPut, "/admin/blogs/999", validBlogPayload())
	asAdmin(ctx)
	setParam(ctx, "id", "999")
	ctrl.UpdateBlog(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, blogNotFoundMessage, env.Error)
}

func TestUpdateBlogSlugCollision(t *testing.T) {
	fake := newFakeBlogStore()
	fake.posts[1] = &models.Post{ID: 1, Title: "First", Slug: "first"}
	fake.posts[2] = &models.Post{ID: 2, Title: "Second", Slug: "second"}
	fake.nextID = 3
	ctrl, _ := newTestBlogController(fake)

	payload := validBlogPayload()
	payload["title"] = "Second"
	payload["slug"] = "second"
	ctx, w := newTestContext(t, http.MethodPut, "/admin/blogs/1", payload)
	asAdmin(ctx)
	setParam(ctx, "id", "1")
	ctrl.UpdateBlog(ctx)

	assert.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, blogDuplicateMessage, env.Error)
}

func TestDeleteBlogSuccessReportsTitle(t *testing.T) {
	fake := newFakeBlogStore()
	fake.posts[4] = &models.Post{ID: 4, Title: "Farewell", Slug: "farewell"}
	ctrl, invalidated := newTestBlogController(fake)

	ctx, w := newTestContext(t, http.MethodDelete, "/admin/blogs/4", nil)
	asAdmin(ctx)
	setParam(ctx, "id", "4")
	ctrl.DeleteBlog(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Contains(t, env.Message, "Farewell")
	assert.Empty(t, fake.posts)
	assert.Contains(t, *invalidated, blogAdminCachePrefix)
}

func TestDeleteBlogNotFound(t *testing.T) {
	ctrl, invalidated := newTestBlogController(newFakeBlogStore())

	ctx, w := newTestContext(t, http.MethodDelete, "/admin/blogs/999", nil)
	asAdmin(ctx)
	setParam(ctx, "id", "999")
	ctrl.DeleteBlog(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, blogNotFoundMessage, env.Error)
	assert.Empty(t, *invalidated, "a failed delete must not drop caches")
}

func TestGetBlogNotFound(t *testing.T) {
	ctrl, _ := newTestBlogController(newFakeBlogStore())

	ctx, w := newTestContext(t, http.MethodGet, "/admin/blogs/2", nil)
	asAdmin(ctx)
	setParam(ctx, "id", "2")
	ctrl.GetBlog(ctx)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetBlogServesFromCache(t *testing.T) {
	fake := newFakeBlogStore()
	ctrl, _ := newTestBlogController(fake)
	cached := []byte(`{"success":true,"data":{"id":3}}`)
	ctrl.cacheGet = func(key string) ([]byte, bool) {
		if key == blogDetailCachePrefix+"3" {
			return cached, true
		}
		return nil, false
	}

	ctx, w := newTestContext(t, http.MethodGet, "/admin/blogs/3", nil)
	asAdmin(ctx)
	setParam(ctx, "id", "3")
	ctrl.GetBlog(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(cached), w.Body.String())
}

func TestListBlogsDeniedWithoutPrincipal(t *testing.T) {
	ctrl, _ := newTestBlogController(newFakeBlogStore())

	ctx, w := newTestContext(t, http.MethodGet, "/admin/blogs", nil)
	ctrl.ListBlogs(ctx)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListBlogsPagination(t *testing.T) {
	fake := newFakeBlogStore()
	fake.posts[1] = &models.Post{ID: 1, Title: "One", Slug: "one"}
	fake.posts[2] = &models.Post{ID: 2, Title: "Two", Slug: "two"}
	fake.nextID = 3
	ctrl, _ := newTestBlogController(fake)

	ctx, w := newTestContext(t, http.MethodGet, "/admin/blogs?page=1&page_size=1", nil)
	asAdmin(ctx)
	ctrl.ListBlogs(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	pagination, ok := data["pagination"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, pagination["total"])
	assert.EqualValues(t, 2, pagination["total_pages"])
}

func TestGetPublishedBlogHidesDrafts(t *testing.T) {
	fake := newFakeBlogStore()
	fake.posts[1] = &models.Post{ID: 1, Title: "Draft", Slug: "draft", Status: models.PostStatusDraft}
	fake.posts[2] = &models.Post{ID: 2, Title: "Live", Slug: "live", Status: models.PostStatusPublished}
	fake.nextID = 3
	ctrl, _ := newTestBlogController(fake)

	ctx, w := newTestContext(t, http.MethodGet, "/blogs/1", nil)
	setParam(ctx, "id", "1")
	ctrl.GetPublishedBlog(ctx)
	assert.Equal(t, http.StatusNotFound, w.Code, "drafts read as not found publicly")

	ctx, w = newTestContext(t, http.MethodGet, "/blogs/2", nil)
	setParam(ctx, "id", "2")
	ctrl.GetPublishedBlog(ctx)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListPublishedBlogsFiltersDrafts(t *testing.T) {
	fake := newFakeBlogStore()
	fake.posts[1] = &models.Post{ID: 1, Title: "Draft", Slug: "draft", Status: models.PostStatusDraft}
	fake.posts[2] = &models.Post{ID: 2, Title: "Live", Slug: "live", Status: models.PostStatusPublished}
	fake.nextID = 3
	ctrl, _ := newTestBlogController(fake)

	ctx, w := newTestContext(t, http.MethodGet, "/blogs", nil)
	ctrl.ListPublishedBlogs(ctx)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	items, ok := data["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
}
