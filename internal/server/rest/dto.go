package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmitrijs2005/airconsole/internal/server/models"
	"github.com/dmitrijs2005/airconsole/internal/server/services"
	"github.com/gin-gonic/gin"
)

// bindJSON decodes the body into dst. An empty body leaves dst untouched so
// the handler reports the missing fields instead.
func bindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

type registerRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// input resolves the display name; username wins over name.
func (r registerRequest) input() services.RegisterInput {
	name := r.Username
	if name == "" {
		name = r.Name
	}
	return services.RegisterInput{Username: name, Email: r.Email, Password: r.Password}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string          `json:"_id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Avatar    string          `json:"avatar"`
	GamesData json.RawMessage `json:"gamesData"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func toUserResponse(u *models.User) userResponse {
	data := u.GamesData
	if len(data) == 0 {
		data = json.RawMessage(`[]`)
	}
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		GamesData: data,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserResponses(users []*models.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type updateUserRequest struct {
	Username  *string         `json:"username"`
	Email     *string         `json:"email"`
	Password  *string         `json:"password"`
	Avatar    *string         `json:"avatar"`
	GamesData json.RawMessage `json:"gamesData"`
}

func (r updateUserRequest) patch() models.UserPatch {
	p := models.UserPatch{
		Username: r.Username,
		Email:    r.Email,
		Password: r.Password,
		Avatar:   r.Avatar,
	}
	if len(r.GamesData) > 0 && string(r.GamesData) != "null" {
		p.GamesData = r.GamesData
	}
	return p
}

// ReleaseDate accepts "2006-01-02" (midnight UTC) or an RFC3339 timestamp.
// An empty string means no date.
type ReleaseDate struct{ t *time.Time }

func (d *ReleaseDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	for _, layout := range []string{time.DateOnly, time.RFC3339Nano} {
		if parsed, err := time.Parse(layout, s); err == nil {
			parsed = parsed.UTC()
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("releaseDate: use date (YYYY-MM-DD) or RFC3339 datetime")
}

func (d *ReleaseDate) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	return d.t
}

// TagList accepts either a JSON array of strings or one comma-separated
// string.
type TagList []string

func (l *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = models.CleanTags(list)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("tags: use an array of strings or a comma-separated string")
	}
	*l = models.ParseTags(s)
	return nil
}

type gameRequest struct {
	Name        *string      `json:"name"`
	Description *string      `json:"description"`
	ImageURL    *string      `json:"imageUrl"`
	ReleaseDate *ReleaseDate `json:"releaseDate"`
	Tags        *TagList     `json:"tags"`
	Publisher   *string      `json:"publisher"`
	Active      *bool        `json:"active"`
}

func (r gameRequest) patch() models.GamePatch {
	p := models.GamePatch{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		ReleaseDate: r.ReleaseDate.Ptr(),
		Publisher:   r.Publisher,
		Active:      r.Active,
	}
	if r.Tags != nil {
		tags := []string(*r.Tags)
		p.Tags = &tags
	}
	return p
}

type imageUploadRequest struct {
	ContentType string `json:"contentType"`
}

type imageUploadResponse struct {
	UploadURL string       `json:"uploadUrl"`
	Key       string       `json:"key"`
	Game      *models.Game `json:"game"`
}
