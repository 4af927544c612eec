package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/cpclub/clubhub/middleware"
	"github.com/cpclub/clubhub/models"
	"github.com/cpclub/clubhub/store"
	"github.com/cpclub/clubhub/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestContext builds a request-bound gin context for direct handler calls.
func newTestContext(t *testing.T, method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	ctx.Request = httptest.NewRequest(method, path, reader)
	ctx.Request.Header.Set("Content-Type", "application/json")
	return ctx, w
}

func setParam(ctx *gin.Context, key, value string) {
	ctx.Params = append(ctx.Params, gin.Param{Key: key, Value: value})
}

func asAdmin(ctx *gin.Context) {
	middleware.SetPrincipal(ctx, middleware.Principal{UserID: 1, Name: "root", Email: "root@diu.edu.bd", Role: models.RoleAdmin})
}

func asModerator(ctx *gin.Context) {
	middleware.SetPrincipal(ctx, middleware.Principal{UserID: 3, Name: "mod", Email: "mod@diu.edu.bd", Role: models.RoleModerator})
}

func asMember(ctx *gin.Context) {
	middleware.SetPrincipal(ctx, middleware.Principal{UserID: 7, Name: "casual", Email: "casual@s.diu.edu.bd", Role: models.RoleMember})
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) utils.Envelope {
	t.Helper()
	var env utils.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

// fakeBlogStore is an in-memory BlogStore mirroring the uniqueness and
// not-found semantics of the gorm implementation.
type fakeBlogStore struct {
	posts  map[uint]*models.Post
	nextID uint

	createCalls int
	updateCalls int
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{posts: map[uint]*models.Post{}, nextID: 1}
}

func (f *fakeBlogStore) Create(_ context.Context, post *models.Post) error {
	f.createCalls++
	for _, existing := range f.posts {
		if existing.Title == post.Title || existing.Slug == post.Slug {
			return store.ErrDuplicate
		}
	}
	post.ID = f.nextID
	f.nextID++
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	f.posts[post.ID] = post
	return nil
}

func (f *fakeBlogStore) Update(_ context.Context, id uint, upd store.PostUpdate) (*models.Post, error) {
	f.updateCalls++
	post, ok := f.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for otherID, other := range f.posts {
		if otherID != id && (other.Title == upd.Title || other.Slug == upd.Slug) {
			return nil, store.ErrDuplicate
		}
	}
	post.Title = upd.Title
	post.Slug = upd.Slug
	post.Author = upd.Author
	post.Content = upd.Content
	post.Status = upd.Status
	post.FeaturedImage = upd.FeaturedImage
	post.PublishedAt = upd.PublishedAt
	post.Featured = upd.Featured
	post.UpdatedAt = time.Now()
	return post, nil
}

func (f *fakeBlogStore) Delete(_ context.Context, id uint) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	delete(f.posts, id)
	return post, nil
}

func (f *fakeBlogStore) Get(_ context.Context, id uint) (*models.Post, error) {
	post, ok := f.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return post, nil
}

func (f *fakeBlogStore) List(_ context.Context, page, pageSize int, search string) ([]models.Post, store.Pagination, error) {
	var out []models.Post
	for _, post := range f.posts {
		if search == "" || strings.Contains(strings.ToLower(post.Title), strings.ToLower(search)) {
			out = append(out, *post)
		}
	}
	return out, store.NewPagination(page, pageSize, int64(len(out))), nil
}

func (f *fakeBlogStore) ListPublished(_ context.Context, page, pageSize int) ([]models.Post, store.Pagination, error) {
	var out []models.Post
	for _, post := range f.posts {
		if post.Status == models.PostStatusPublished {
			out = append(out, *post)
		}
	}
	return out, store.NewPagination(page, pageSize, int64(len(out))), nil
}

// newTestBlogController wires a BlogController with no-op caching so tests
// never touch Redis.
func newTestBlogController(fake *fakeBlogStore) (*BlogController, *[]string) {
	invalidated := &[]string{}
	ctrl := &BlogController{
		store:      fake,
		cacheGet:   func(string) ([]byte, bool) { return nil, false },
		cacheSet:   func(string, interface{}, time.Duration) {},
		invalidate: func(prefix string) { *invalidated = append(*invalidated, prefix) },
	}
	return ctrl, invalidated
}

// fakeUserDirectory backs auth and member-search tests.
type fakeUserDirectory struct {
	users  map[uint]*models.User
	nextID uint

	available []models.User
	lastQuery string
}

func newFakeUserDirectory() *fakeUserDirectory {
	return &fakeUserDirectory{users: map[uint]*models.User{}, nextID: 1}
}

func (f *fakeUserDirectory) Create(_ context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserDirectory) Get(_ context.Context, id uint) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserDirectory) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserDirectory) UpdatePassword(_ context.Context, id uint, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserDirectory) Search(_ context.Context, query string, _ int) ([]models.User, error) {
	f.lastQuery = query
	var out []models.User
	for _, user := range f.users {
		if query == "" || strings.Contains(strings.ToLower(user.Name), strings.ToLower(query)) {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUserDirectory) SearchAvailable(_ context.Context, _ uint, query string, _ int) ([]models.User, error) {
	f.lastQuery = query
	return f.available, nil
}

// fakeEventDirectory backs the available-events search.
type fakeEventDirectory struct {
	events    map[uint]*models.Event
	available []models.Event
	lastQuery string
	nextID    uint
}

func newFakeEventDirectory() *fakeEventDirectory {
	return &fakeEventDirectory{events: map[uint]*models.Event{}, nextID: 1}
}

func (f *fakeEventDirectory) Create(_ context.Context, event *models.Event) error {
	event.ID = f.nextID
	f.nextID++
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventDirectory) Get(_ context.Context, id uint) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return event, nil
}

func (f *fakeEventDirectory) Available(_ context.Context, _ uint, query string, _ int) ([]models.Event, error) {
	f.lastQuery = query
	return f.available, nil
}

// fakeRanklistDirectory mirrors the association semantics of the gorm store.
type fakeRanklistDirectory struct {
	ranklists map[uint]*models.Ranklist
	events    map[uint]*models.Event
	users     map[uint]*models.User
	attached  map[[2]uint]*models.RanklistEvent
	members   map[[2]uint]*models.RanklistMember
	nextID    uint

	attachCalls int
}

func newFakeRanklistDirectory() *fakeRanklistDirectory {
	return &fakeRanklistDirectory{
		ranklists: map[uint]*models.Ranklist{},
		events:    map[uint]*models.Event{},
		users:     map[uint]*models.User{},
		attached:  map[[2]uint]*models.RanklistEvent{},
		members:   map[[2]uint]*models.RanklistMember{},
		nextID:    1,
	}
}

func (f *fakeRanklistDirectory) Create(_ context.Context, ranklist *models.Ranklist) error {
	ranklist.ID = f.nextID
	f.nextID++
	f.ranklists[ranklist.ID] = ranklist
	return nil
}

func (f *fakeRanklistDirectory) Get(_ context.Context, id uint) (*models.Ranklist, error) {
	ranklist, ok := f.ranklists[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return ranklist, nil
}

func (f *fakeRanklistDirectory) List(_ context.Context) ([]models.Ranklist, error) {
	var out []models.Ranklist
	for _, r := range f.ranklists {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeRanklistDirectory) AttachEvent(_ context.Context, ranklistID, eventID uint, weight float64) (*models.RanklistEvent, error) {
	f.attachCalls++
	if _, ok := f.ranklists[ranklistID]; !ok {
		return nil, store.ErrNotFound
	}
	event, ok := f.events[eventID]
	if !ok {
		return nil, store.ErrNotFound
	}
	key := [2]uint{ranklistID, eventID}
	if _, ok := f.attached[key]; ok {
		return nil, store.ErrDuplicate
	}
	attachment := &models.RanklistEvent{RanklistID: ranklistID, EventID: eventID, Weight: weight, Event: *event}
	f.attached[key] = attachment
	return attachment, nil
}

func (f *fakeRanklistDirectory) DetachEvent(_ context.Context, ranklistID, eventID uint) error {
	key := [2]uint{ranklistID, eventID}
	if _, ok := f.attached[key]; !ok {
		return store.ErrNotFound
	}
	delete(f.attached, key)
	return nil
}

func (f *fakeRanklistDirectory) Events(_ context.Context, ranklistID uint) ([]models.RanklistEvent, error) {
	var out []models.RanklistEvent
	for key, attachment := range f.attached {
		if key[0] == ranklistID {
			out = append(out, *attachment)
		}
	}
	return out, nil
}

func (f *fakeRanklistDirectory) AddMember(_ context.Context, ranklistID, userID uint) (*models.RanklistMember, error) {
	if _, ok := f.ranklists[ranklistID]; !ok {
		return nil, store.ErrNotFound
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	key := [2]uint{ranklistID, userID}
	if _, ok := f.members[key]; ok {
		return nil, store.ErrDuplicate
	}
	member := &models.RanklistMember{RanklistID: ranklistID, UserID: userID, User: *user}
	f.members[key] = member
	return member, nil
}

func (f *fakeRanklistDirectory) Members(_ context.Context, ranklistID uint) ([]models.RanklistMember, error) {
	var out []models.RanklistMember
	for key, member := range f.members {
		if key[0] == ranklistID {
			out = append(out, *member)
		}
	}
	return out, nil
}
