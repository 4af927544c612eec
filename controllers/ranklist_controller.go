package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cpclub/clubhub/models"
	"github.com/cpclub/clubhub/permissions"
	"github.com/cpclub/clubhub/search"
	"github.com/cpclub/clubhub/store"
	"github.com/cpclub/clubhub/utils"
)

const (
	ranklistNotFoundMessage = "Ranklist not found"
	attachNotFoundMessage   = "Ranklist or event not found"
	memberNotFoundMessage   = "Ranklist or user not found"
)

// RanklistController manages ranklists, their weighted event attachments and
// their tracked members.
type RanklistController struct {
	ranklists RanklistDirectory
	events    EventDirectory
	users     UserDirectory
}

// NewRanklistController creates a RanklistController.
func NewRanklistController(ranklists RanklistDirectory, events EventDirectory, users UserDirectory) *RanklistController {
	return &RanklistController{ranklists: ranklists, events: events, users: users}
}

// ListRanklists returns every ranklist, newest first.
func (r *RanklistController) ListRanklists(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageRanklists); !ok {
		return
	}

	ranklists, err := r.ranklists.List(ctx.Request.Context())
	if err != nil {
		internalError(ctx, "list ranklists", err)
		return
	}
	utils.Success(ctx, ranklists)
}

// CreateRanklist inserts a new ranklist.
func (r *RanklistController) CreateRanklist(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageRanklists); !ok {
		return
	}

	var form struct {
		Title       string `json:"title"`
		Session     string `json:"session"`
		Description string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		utils.Fail(ctx, http.StatusBadRequest, "title is required")
		return
	}

	ranklist := &models.Ranklist{
		Title:       form.Title,
		Session:     strings.TrimSpace(form.Session),
		Description: strings.TrimSpace(form.Description),
	}
	if err := r.ranklists.Create(ctx.Request.Context(), ranklist); err != nil {
		internalError(ctx, "create ranklist", err)
		return
	}
	utils.SuccessMessage(ctx, ranklist, "Ranklist created")
}

// GetRanklist returns one ranklist with its attachments and members.
func (r *RanklistController) GetRanklist(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageRanklists); !ok {
		return
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, ranklistNotFoundMessage)
		return
	}

	ranklist, err := r.ranklists.Get(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(ctx, http.StatusNotFound, ranklistNotFoundMessage)
			return
		}
		internalError(ctx, "get ranklist", err)
		return
	}

	events, err := r.ranklists.Events(ctx.Request.Context(), id)
	if err != nil {
		internalError(ctx, "load ranklist events", err)
		return
	}
	members, err := r.ranklists.Members(ctx.Request.Context(), id)
	if err != nil {
		internalError(ctx, "load ranklist members", err)
		return
	}

	utils.Success(ctx, gin.H{
		"ranklist": ranklist,
		"events":   events,
		"members":  members,
	})
}

// CreateEvent inserts a club event so it can later be attached to ranklists.
func (r *RanklistController) CreateEvent(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageRanklists); !ok {
		return
	}

	var form struct {
		Title       string    `json:"title"`
		Description string    `json:"description"`
		StartsAt    time.Time `json:"starts_at"`
		Type        string    `json:"type"`
	}
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	form.Title = strings.TrimSpace(form.Title)
	if form.Title == "" {
		utils.Fail(ctx, http.StatusBadRequest, "title is required")
		return
	}
	if form.StartsAt.IsZero() {
		utils.Fail(ctx, http.StatusBadRequest, "starts_at is required")
		return
	}
	switch form.Type {
	case models.EventTypeContest, models.EventTypeClass, models.EventTypeOther:
	case "":
		form.Type = models.EventTypeOther
	default:
		utils.Fail(ctx, http.StatusBadRequest, "type must be one of: contest class other")
		return
	}

	event := &models.Event{
		Title:       form.Title,
		Description: strings.TrimSpace(form.Description),
		StartsAt:    form.StartsAt,
		Type:        form.Type,
	}
	if err := r.events.Create(ctx.Request.Context(), event); err != nil {
		internalError(ctx, "create event", err)
		return
	}
	utils.SuccessMessage(ctx, event, "Event created")
}

// AvailableEvents returns events matching q that are not yet attached to the
// ranklist. Backs the event picker dialog.
func (r *RanklistController) AvailableEvents(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageRanklists); !ok {
		return
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, ranklistNotFoundMessage)
		return
	}

	events, err := r.events.Available(ctx.Request.Context(), id, ctx.Query("q"), 20)
	if err != nil {
		internalError(ctx, "search available events", err)
		return
	}
	utils.Success(ctx, events)
}

// AttachEvent links an event to the ranklist with a weight in [0, 1].
func (r *RanklistController) AttachEvent(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageRanklists); !ok {
		return
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, attachNotFoundMessage)
		return
	}

	var form struct {
		EventID uint   `json:"event_id"`
		Weight  string `json:"weight"`
	}
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if form.EventID == 0 {
		utils.Fail(ctx, http.StatusBadRequest, "event_id is required")
		return
	}
	if form.Weight == "" {
		form.Weight = search.DefaultWeightText
	}
	weight, err := search.ParseWeight(form.Weight)
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, err.Error())
		return
	}

	attachment, err := r.ranklists.AttachEvent(ctx.Request.Context(), id, form.EventID, weight)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.Fail(ctx, http.StatusNotFound, attachNotFoundMessage)
		case errors.Is(err, store.ErrDuplicate):
			utils.Fail(ctx, http.StatusConflict, "Event is already attached to this ranklist")
		default:
			internalError(ctx, "attach event", err)
		}
		return
	}

	utils.SuccessMessage(ctx, attachment, "Event attached")
}

// DetachEvent removes an event attachment from the ranklist.
func (r *RanklistController) DetachEvent(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageRanklists); !ok {
		return
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, attachNotFoundMessage)
		return
	}
	eventID, ok := parseID(ctx.Param("eventId"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, attachNotFoundMessage)
		return
	}

	if err := r.ranklists.DetachEvent(ctx.Request.Context(), id, eventID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Fail(ctx, http.StatusNotFound, attachNotFoundMessage)
			return
		}
		internalError(ctx, "detach event", err)
		return
	}
	utils.SuccessMessage(ctx, nil, "Event detached")
}

// SearchUsers returns users matching q that are not yet tracked on the
// ranklist. Backs the user picker dialog.
func (r *RanklistController) SearchUsers(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageRanklists); !ok {
		return
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, ranklistNotFoundMessage)
		return
	}

	users, err := r.users.SearchAvailable(ctx.Request.Context(), id, ctx.Query("q"), 20)
	if err != nil {
		internalError(ctx, "search available users", err)
		return
	}
	utils.Success(ctx, users)
}

// AddMember tracks a user on the ranklist.
func (r *RanklistController) AddMember(ctx *gin.Context) {
	if _, ok := requireCapability(ctx, permissions.ManageRanklists); !ok {
		return
	}

	id, ok := parseID(ctx.Param("id"))
	if !ok {
		utils.Fail(ctx, http.StatusNotFound, memberNotFoundMessage)
		return
	}

	var form struct {
		UserID uint `json:"user_id"`
	}
	if err := ctx.ShouldBindJSON(&form); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}
	if form.UserID == 0 {
		utils.Fail(ctx, http.StatusBadRequest, "user_id is required")
		return
	}

	member, err := r.ranklists.AddMember(ctx.Request.Context(), id, form.UserID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			utils.Fail(ctx, http.StatusNotFound, memberNotFoundMessage)
		case errors.Is(err, store.ErrDuplicate):
			utils.Fail(ctx, http.StatusConflict, "User is already tracked on this ranklist")
		default:
			internalError(ctx, "add member", err)
		}
		return
	}

	utils.SuccessMessage(ctx, member, "User added")
}
