// Package services contains the CLI's application services. ProfileService
// keeps the signed in user's profile in a session cache and saves edits,
// uploading any newly selected images first.
package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/artistkatta/jobservice/internal/client/session"
	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/models"
)

// ImageFolder is the upload folder used for profile images.
const ImageFolder = "images"

// ProfileAPI is the subset of the HTTP client the profile service needs.
type ProfileAPI interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	EditUser(ctx context.Context, patch models.UserPatch) (*models.User, error)
	Upload(ctx context.Context, folder, filename, contentType string, data []byte) (string, error)
}

// ImageFile is a locally selected file to upload before saving a profile.
type ImageFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProfileService defines profile operations for the CLI.
//
// Contract:
//   - Load: return the cached profile for userID, fetching it when absent.
//   - Save: upload images, send the edit, replace the cache with the result.
//     On failure the draft and the cache are left as they were.
//   - Logout: drop the cached profile.
type ProfileService interface {
	Load(ctx context.Context, userID string) (*models.User, error)
	Save(ctx context.Context, draft models.UserPatch, images map[string]ImageFile) (*models.User, error)
	Logout()
}

type profileService struct {
	api   ProfileAPI
	cache *session.ProfileCache
}

// NewProfileService constructs a ProfileService bound to the API client and cache.
func NewProfileService(api ProfileAPI, cache *session.ProfileCache) ProfileService {
	return &profileService{api: api, cache: cache}
}

func (s *profileService) Load(ctx context.Context, userID string) (*models.User, error) {
	if u, ok := s.cache.Get(); ok && u.UserID == userID {
		return u, nil
	}

	u, err := s.api.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Replace(u)
	return u, nil
}

// Save keys images by the profile field that receives the uploaded URL,
// e.g. "profileImage" or "coverImage".
func (s *profileService) Save(ctx context.Context, draft models.UserPatch, images map[string]ImageFile) (*models.User, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(draft.Fields)+len(images))
	for k, v := range draft.Fields {
		fields[k] = v
	}

	names := make([]string, 0, len(images))
	for name := range images {
		if !models.IsUserField(name) {
			return nil, fmt.Errorf("%w: unknown profile field %q", common.ErrValidation, name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		img := images[name]
		url, err := s.api.Upload(ctx, ImageFolder, img.Filename, img.ContentType, img.Data)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", name, err)
		}
		fields[name] = url
	}

	patch := models.UserPatch{UserID: draft.UserID, Fields: fields, ExpectedVersion: draft.ExpectedVersion}
	u, err := s.api.EditUser(ctx, patch)
	if err != nil {
		return nil, err
	}

	s.cache.Replace(u)
	return u, nil
}

func (s *profileService) Logout() {
	s.cache.Clear()
}
