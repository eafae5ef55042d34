package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bible-reader/internal/entities"
)

type LastReadResponse struct {
	LastReadChapter *entities.LastRead `json:"lastReadChapter"`
}

type LastReadRequest struct {
	Book    string `json:"book" binding:"required"`
	Chapter int    `json:"chapter" binding:"required,min=1"`
	Version string `json:"version" binding:"required"`
}

type Preferences struct {
	Translation string `json:"translation,omitempty"`
}

type PreferencesBody struct {
	Preferences *Preferences `json:"preferences"`
}

// ReaderController serves the per-reader endpoints under /api/user.
type ReaderController struct {
	store ReaderStore
	now   func() time.Time
}

func NewReaderController(store ReaderStore) *ReaderController {
	return &ReaderController{store: store, now: time.Now}
}

func (r *ReaderController) GetLastRead(c *gin.Context) {
	rec, err := r.store.GetLastRead(GetReaderID(c))
	if err != nil {
		respondInternalError(c, err, "get last read")
		return
	}
	c.JSON(http.StatusOK, LastReadResponse{LastReadChapter: rec})
}

func (r *ReaderController) SaveLastRead(c *gin.Context) {
	var req LastReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid last-read body: "+err.Error())
		return
	}

	rec := &entities.LastRead{
		ReaderID:  GetReaderID(c),
		Version:   strings.TrimSpace(req.Version),
		Book:      strings.TrimSpace(req.Book),
		Chapter:   req.Chapter,
		UpdatedAt: r.now().UTC(),
	}
	if err := r.store.SaveLastRead(rec); err != nil {
		respondInternalError(c, err, "save last read")
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "saved", Data: rec})
}

func (r *ReaderController) GetPreferences(c *gin.Context) {
	pref, err := r.store.GetPreference(GetReaderID(c))
	if err != nil {
		respondInternalError(c, err, "get preferences")
		return
	}

	resp := PreferencesBody{Preferences: &Preferences{}}
	if pref != nil {
		resp.Preferences.Translation = pref.Translation
	}
	c.JSON(http.StatusOK, resp)
}

func (r *ReaderController) SavePreferences(c *gin.Context) {
	var body PreferencesBody
	if err := c.ShouldBindJSON(&body); err != nil || body.Preferences == nil {
		respondBadRequest(c, "invalid preferences body")
		return
	}

	pref := &entities.Preference{
		ReaderID:    GetReaderID(c),
		Translation: strings.TrimSpace(body.Preferences.Translation),
		UpdatedAt:   r.now().UTC(),
	}
	if err := r.store.SavePreference(pref); err != nil {
		respondInternalError(c, err, "save preferences")
		return
	}
	c.JSON(http.StatusOK, PreferencesBody{Preferences: &Preferences{Translation: pref.Translation}})
}
