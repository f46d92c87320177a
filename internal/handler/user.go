package handler

import (
	"net/http"

	"github.com/msomdec/lovebridge/internal/domain"
	"github.com/msomdec/lovebridge/internal/service"
)

// UserHandler serves member profiles, verifications, media and preferences.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// HandleGet returns a member profile.
// GET /api/users/{id}
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, "get profile", err)
		return
	}
	profile, err := h.users.GetProfile(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toProfileDTO(profile)})
}

type updateProfileRequest struct {
	Name      *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Gender    *string  `json:"gender" validate:"omitempty,oneof=male female other"`
	BirthDate *string  `json:"birthDate"`
	Country   *string  `json:"country" validate:"omitempty,max=100"`
	City      *string  `json:"city" validate:"omitempty,max=100"`
	Language  *string  `json:"language"`
	Bio       *string  `json:"bio" validate:"omitempty,max=2000"`
	Interests []string `json:"interests" validate:"omitempty,max=30,dive,min=1,max=50"`
	MBTI      *string  `json:"mbti" validate:"omitempty,len=4"`
}

// HandleUpdate applies a partial profile update.
// PUT /api/users/{id}
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, "update profile", err)
		return
	}
	var req updateProfileRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.users.UpdateProfile(r.Context(), id, service.ProfileUpdate{
		Name:      req.Name,
		Gender:    req.Gender,
		BirthDate: req.BirthDate,
		Country:   req.Country,
		City:      req.City,
		Language:  req.Language,
		Bio:       req.Bio,
		Interests: req.Interests,
		MBTI:      req.MBTI,
	})
	if err != nil {
		writeServiceError(w, r, "update profile", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": toUserDTO(u)})
}

// HandleSearch lists approved members.
// GET /api/users/search?q=&country=&language=&gender=
func (h *UserHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, err := h.users.Search(r.Context(), domain.UserSearch{
		Query:    q.Get("q"),
		Country:  q.Get("country"),
		Language: q.Get("language"),
		Gender:   q.Get("gender"),
	})
	if err != nil {
		writeServiceError(w, r, "search users", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": toUserDTOs(users)})
}

// HandleListVerifications lists a member's social verifications.
// GET /api/users/{id}/verifications
func (h *UserHandler) HandleListVerifications(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, "list verifications", err)
		return
	}
	vs, err := h.users.Verifications(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "list verifications", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"verifications": toVerificationDTOs(vs)})
}

type addVerificationRequest struct {
	Provider         string `json:"provider" validate:"required"`
	ProviderID       string `json:"providerId" validate:"required,max=200"`
	ProviderUsername string `json:"providerUsername" validate:"max=200"`
}

// HandleAddVerification links a social account.
// POST /api/users/{id}/verifications
// Response: 201 {"verificationCount":n}
func (h *UserHandler) HandleAddVerification(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, "add verification", err)
		return
	}
	var req addVerificationRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.users.AddVerification(r.Context(), &domain.SocialVerification{
		UserID:           id,
		Provider:         req.Provider,
		ProviderID:       req.ProviderID,
		ProviderUsername: req.ProviderUsername,
	})
	if err != nil {
		writeServiceError(w, r, "add verification", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"verificationCount": count,
		"verified":          count >= domain.VerifiedThreshold,
	})
}

// HandleListMedia lists a member's approved media.
// GET /api/users/{id}/media?type=
func (h *UserHandler) HandleListMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, "list media", err)
		return
	}
	media, err := h.users.ListMedia(r.Context(), id, r.URL.Query().Get("type"))
	if err != nil {
		writeServiceError(w, r, "list media", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"media": toMediaDTOs(media)})
}

type addMediaRequest struct {
	Type         string `json:"type" validate:"required,oneof=photo video story"`
	URL          string `json:"url" validate:"required,max=2048"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"max=2048"`
	IsProfile    bool   `json:"isProfile"`
	DisplayOrder int    `json:"displayOrder" validate:"gte=0"`
}

// HandleAddMedia registers uploaded media for moderation.
// POST /api/users/{id}/media
func (h *UserHandler) HandleAddMedia(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, "add media", err)
		return
	}
	var req addMediaRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m := &domain.Media{
		UserID:       id,
		Type:         domain.MediaType(req.Type),
		URL:          req.URL,
		ThumbnailURL: req.ThumbnailURL,
		IsProfile:    req.IsProfile,
		DisplayOrder: req.DisplayOrder,
	}
	if err := h.users.AddMedia(r.Context(), m); err != nil {
		writeServiceError(w, r, "add media", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"media": toMediaDTOs([]domain.Media{*m})[0]})
}

// HandleGetPreferences returns a member's matching preferences.
// GET /api/users/{id}/preferences
func (h *UserHandler) HandleGetPreferences(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, "get preferences", err)
		return
	}
	p, err := h.users.Preferences(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, "get preferences", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preferences": toPreferencesDTO(p)})
}

type savePreferencesRequest struct {
	MinAge             int      `json:"minAge" validate:"required,gte=18,lte=99"`
	MaxAge             int      `json:"maxAge" validate:"required,gte=18,lte=99,gtefield=MinAge"`
	PreferredGender    string   `json:"preferredGender" validate:"omitempty,oneof=male female both"`
	PreferredLanguages []string `json:"preferredLanguages"`
	PreferredInterests []string `json:"preferredInterests"`
	PreferredCountries []string `json:"preferredCountries"`
	MaxDistance        *int     `json:"maxDistance" validate:"omitempty,gte=0"`
}

// HandleSavePreferences stores a member's matching preferences.
// PUT /api/users/{id}/preferences
func (h *UserHandler) HandleSavePreferences(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, "save preferences", err)
		return
	}
	var req savePreferencesRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := validateRequest(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p := &domain.Preferences{
		UserID:             id,
		MinAge:             req.MinAge,
		MaxAge:             req.MaxAge,
		PreferredGender:    req.PreferredGender,
		PreferredLanguages: encodeList(req.PreferredLanguages),
		PreferredInterests: encodeList(req.PreferredInterests),
		PreferredCountries: encodeList(req.PreferredCountries),
		MaxDistance:        req.MaxDistance,
	}
	if err := h.users.SavePreferences(r.Context(), p); err != nil {
		writeServiceError(w, r, "save preferences", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preferences": toPreferencesDTO(p)})
}
