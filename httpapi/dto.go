package httpapi

import (
	"strings"
	"time"

	"github.com/Harshan-Nayak/xlist/pkg/types"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("xlist_category", func(fl validator.FieldLevel) bool {
		return types.ValidCategory(strings.TrimSpace(fl.Field().String()))
	})
	return v
}

type createProfileRequest struct {
	XHandle        string `json:"xHandle" validate:"required,max=50"`
	Username       string `json:"username" validate:"required,max=100"`
	Category       string `json:"category" validate:"required,xlist_category"`
	Bio            string `json:"bio" validate:"omitempty,max=500"`
	Location       string `json:"location" validate:"omitempty,max=100"`
	Website        string `json:"website" validate:"omitempty,url"`
	ProfileImage   string `json:"profileImage" validate:"omitempty,url"`
	FollowersCount *int64 `json:"followersCount" validate:"omitempty,min=0"`
}

func (req createProfileRequest) draft() types.ProfileDraft {
	return types.ProfileDraft{
		XHandle:        req.XHandle,
		Username:       req.Username,
		Category:       req.Category,
		Bio:            req.Bio,
		Location:       req.Location,
		Website:        req.Website,
		ProfileImage:   req.ProfileImage,
		FollowersCount: req.FollowersCount,
	}
}

type updateProfileRequest struct {
	XHandle        *string `json:"xHandle" validate:"omitempty,max=50"`
	Username       *string `json:"username" validate:"omitempty,max=100"`
	Category       *string `json:"category" validate:"omitempty,xlist_category"`
	Bio            *string `json:"bio" validate:"omitempty,max=500"`
	Location       *string `json:"location" validate:"omitempty,max=100"`
	Website        *string `json:"website" validate:"omitempty,url"`
	ProfileImage   *string `json:"profileImage" validate:"omitempty,url"`
	FollowersCount *int64  `json:"followersCount" validate:"omitempty,min=0"`
}

func (req updateProfileRequest) patch() types.ProfilePatch {
	return types.ProfilePatch{
		XHandle:        req.XHandle,
		Username:       req.Username,
		Category:       req.Category,
		Bio:            req.Bio,
		Location:       req.Location,
		Website:        req.Website,
		ProfileImage:   req.ProfileImage,
		FollowersCount: req.FollowersCount,
	}
}

type profileResponse struct {
	ID             uuid.UUID `json:"id"`
	XHandle        string    `json:"xHandle"`
	Username       string    `json:"username"`
	Category       string    `json:"category"`
	Bio            string    `json:"bio,omitempty"`
	Location       string    `json:"location,omitempty"`
	Website        string    `json:"website,omitempty"`
	ProfileImage   string    `json:"profileImage,omitempty"`
	FollowersCount *int64    `json:"followersCount,omitempty"`
	UserID         string    `json:"userId"`
	ProfileURL     string    `json:"profileUrl"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func toProfileResponse(p types.Profile) profileResponse {
	return profileResponse{
		ID:             p.ID,
		XHandle:        p.XHandle,
		Username:       p.Username,
		Category:       p.Category,
		Bio:            p.Bio,
		Location:       p.Location,
		Website:        p.Website,
		ProfileImage:   p.ProfileImage,
		FollowersCount: p.FollowersCount,
		UserID:         p.UserID,
		ProfileURL:     types.ExternalProfileURL(p.XHandle),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProfileResponses(profiles []types.Profile) []profileResponse {
	out := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toProfileResponse(p))
	}
	return out
}

type clickResponse struct {
	ID        uuid.UUID `json:"id"`
	ProfileID uuid.UUID `json:"profileId"`
	ClickedAt time.Time `json:"clickedAt"`
	UserAgent string    `json:"userAgent,omitempty"`
	IPAddress string    `json:"ipAddress,omitempty"`
}

func toClickResponses(events []types.ClickEvent) []clickResponse {
	out := make([]clickResponse, 0, len(events))
	for _, e := range events {
		out = append(out, clickResponse{
			ID:        e.ID,
			ProfileID: e.ProfileID,
			ClickedAt: e.ClickedAt,
			UserAgent: e.UserAgent,
			IPAddress: e.IPAddress,
		})
	}
	return out
}

type dailyClicksResponse struct {
	Date   string `json:"date"`
	Clicks int    `json:"clicks"`
}

type analyticsResponse struct {
	ProfileID     uuid.UUID             `json:"profileId"`
	TotalClicks   int                   `json:"totalClicks"`
	TodayClicks   int                   `json:"todayClicks"`
	WeeklyClicks  int                   `json:"weeklyClicks"`
	MonthlyClicks int                   `json:"monthlyClicks"`
	DailyClicks   []dailyClicksResponse `json:"dailyClicks"`
	GeneratedAt   time.Time             `json:"generatedAt"`
}

func toAnalyticsResponse(snap types.ProfileAnalytics) analyticsResponse {
	daily := make([]dailyClicksResponse, 0, len(snap.DailyClicks))
	for _, slot := range snap.DailyClicks {
		daily = append(daily, dailyClicksResponse{Date: slot.Date, Clicks: slot.Clicks})
	}
	return analyticsResponse{
		ProfileID:     snap.ProfileID,
		TotalClicks:   snap.TotalClicks,
		TodayClicks:   snap.TodayClicks,
		WeeklyClicks:  snap.WeeklyClicks,
		MonthlyClicks: snap.MonthlyClicks,
		DailyClicks:   daily,
		GeneratedAt:   snap.GeneratedAt,
	}
}

type categoriesResponse struct {
	All        string   `json:"all"`
	Categories []string `json:"categories"`
}

type validatorErrors = validator.ValidationErrors
