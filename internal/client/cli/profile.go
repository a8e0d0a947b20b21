package cli

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/artistkatta/jobservice/internal/client/services"
	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/models"
)

func (a *App) ProfileShow(ctx context.Context) error {
	u, err := a.profiles.Load(ctx, a.userID)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("userId: %s", u.UserID))
	for _, name := range models.UserFieldNames() {
		if v, _ := u.Get(name); v != "" {
			printlnFn(fmt.Sprintf("%s: %s", name, v))
		}
	}
	printlnFn(fmt.Sprintf("version: %d", u.Version))
	return nil
}

// ProfileEdit saves key=value fields. A value of the form @path uploads the
// local file and stores its public URL in that field.
func (a *App) ProfileEdit(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: profile edit key=value...")
		return nil
	}

	kv, err := parseKV(args)
	if err != nil {
		return err
	}

	draft := models.UserPatch{UserID: a.userID, Fields: map[string]string{}}
	images := map[string]services.ImageFile{}

	for k, v := range kv {
		if k == "version" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: version must be a number", common.ErrValidation)
			}
			draft.ExpectedVersion = &n
			continue
		}

		path, isFile := strings.CutPrefix(v, "@")
		if !isFile {
			draft.Fields[k] = v
			continue
		}

		img, err := readImage(path)
		if err != nil {
			return err
		}
		images[k] = img
	}

	u, err := a.profiles.Save(ctx, draft, images)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Profile saved (version %d)", u.Version))
	return nil
}

func readImage(path string) (services.ImageFile, error) {
	data, err := readFileFn(path)
	if err != nil {
		return services.ImageFile{}, fmt.Errorf("read %s: %w", path, err)
	}
	return services.ImageFile{
		Filename:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, nil
}
