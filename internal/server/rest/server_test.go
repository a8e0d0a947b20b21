package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/artistkatta/jobservice/internal/logging"
	"github.com/artistkatta/jobservice/internal/server/auth"
	"github.com/artistkatta/jobservice/internal/server/models"
	"github.com/artistkatta/jobservice/internal/server/repositories/jobs"
	"github.com/artistkatta/jobservice/internal/server/repositories/users"
	"github.com/artistkatta/jobservice/internal/server/services"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakePutter struct {
	calls int
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

type testEnv struct {
	handler http.Handler
	jobs    *jobs.MemoryRepository
	users   *users.MemoryRepository
	putter  *fakePutter
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	jobRepo := jobs.NewMemoryRepository()
	userRepo := users.NewMemoryRepository(&models.User{UserID: "u1", FullName: "Asha", City: "Pune", Version: 1})
	putter := &fakePutter{}

	if opts.UploadMaxBytes == 0 {
		opts.UploadMaxBytes = 1 << 20
	}
	ups := services.NewUploadService(putter, services.UploadOptions{
		Bucket:   "katta",
		Region:   "ap-south-1",
		MaxBytes: opts.UploadMaxBytes,
		Folders:  []string{"images", "resumes"},
	})

	s := NewServer(opts, logging.Nop(), services.NewJobService(jobRepo), services.NewUserService(userRepo), ups)
	return &testEnv{handler: s.Handler(), jobs: jobRepo, users: userRepo, putter: putter}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var out map[string]json.RawMessage
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, Options{})
	rec, out := env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `"ok"`, string(out["status"]))
}

func TestCreateGetListScenario(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec, out := env.do(t, http.MethodPost, "/jobs", map[string]any{"title": "Mural Artist", "postedDate": "2024-03-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Job](t, out["job"])
	require.NotEmpty(t, created.JobID)

	rec, out = env.do(t, http.MethodGet, "/jobs/"+created.JobID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Job](t, out["job"])
	assert.Equal(t, created.JobID, got.JobID)
	assert.Equal(t, "Mural Artist", got.Title)
	assert.Equal(t, "2024-03-01", got.PostedDate)

	rec, out = env.do(t, http.MethodGet, "/jobs/date-range?start=2024-02-01&end=2024-03-31", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inRange := decode[[]models.Job](t, out["jobs"])
	require.Len(t, inRange, 1)
	assert.Equal(t, created.JobID, inRange[0].JobID)

	rec, out = env.do(t, http.MethodGet, "/jobs/date-range?start=2024-04-01&end=2024-04-30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", string(out["jobs"]))
}

func TestCreateJob_Validation(t *testing.T) {
	env := newTestEnv(t, Options{})

	for _, body := range []any{
		map[string]any{"postedDate": "2024-03-01"},
		map[string]any{"title": "x", "postedDate": "01-03-2024"},
		map[string]any{"title": "   "},
		map[string]any{"title": strings.Repeat("x", 201)},
		map[string]any{"title": strings.Repeat("चित्र", 41), "postedDate": "2024-03-01"},
		"{not json",
	} {
		rec, out := env.do(t, http.MethodPost, "/jobs", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%v", body)
		assert.NotEmpty(t, out["error"])
	}

	title := strings.Repeat("चित्र", 40)
	rec, out := env.do(t, http.MethodPost, "/jobs", map[string]any{"title": title, "postedDate": "2024-03-01"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[models.Job](t, out["job"])
	assert.Equal(t, title, created.Title)

	rec, _ = env.do(t, http.MethodPut, "/jobs/"+created.JobID, map[string]any{"postedDate": "2024-03-01", "title": strings.Repeat("कला", 66)})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCreateJob_MissingTitleMessage(t *testing.T) {
	env := newTestEnv(t, Options{})

	_, out := env.do(t, http.MethodPost, "/jobs", map[string]any{})
	assert.Contains(t, decode[string](t, out["error"]), "title is required")
}

func TestGetJob_NotFound(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec, out := env.do(t, http.MethodGet, "/jobs/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `"not found"`, string(out["error"]))
}

func TestEditJob(t *testing.T) {
	env := newTestEnv(t, Options{})
	_, out := env.do(t, http.MethodPost, "/jobs", map[string]any{"title": "Old", "postedDate": "2024-03-01", "company": "Katta"})
	created := decode[models.Job](t, out["job"])

	rec, out := env.do(t, http.MethodPut, "/jobs/"+created.JobID, map[string]any{
		"jobId":      "someone-else",
		"postedDate": "2024-03-01",
		"title":      "New",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	edited := decode[models.Job](t, out["job"])
	assert.Equal(t, created.JobID, edited.JobID, "the key never moves")
	assert.Equal(t, "New", edited.Title)
	assert.Equal(t, "Katta", edited.Company)
	assert.Equal(t, int64(2), edited.Version)

	_, err := env.jobs.GetByID(context.Background(), "someone-else")
	assert.Error(t, err)
}

func TestEditJob_Errors(t *testing.T) {
	env := newTestEnv(t, Options{})
	_, out := env.do(t, http.MethodPost, "/jobs", map[string]any{"title": "Old", "postedDate": "2024-03-01"})
	created := decode[models.Job](t, out["job"])

	tests := []struct {
		name string
		path string
		body any
		want int
	}{
		{"missing postedDate", "/jobs/" + created.JobID, map[string]any{"title": "x"}, http.StatusBadRequest},
		{"unknown job", "/jobs/nope", map[string]any{"postedDate": "2024-03-01"}, http.StatusNotFound},
		{"other date", "/jobs/" + created.JobID, map[string]any{"postedDate": "2024-03-02"}, http.StatusNotFound},
		{"stale version", "/jobs/" + created.JobID, map[string]any{"postedDate": "2024-03-01", "expectedVersion": 9}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := env.do(t, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestListJobs_OrderAndValidation(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, d := range []string{"2024-03-20", "2024-03-02", "2024-03-11"} {
		rec, _ := env.do(t, http.MethodPost, "/jobs", map[string]any{"title": "t", "postedDate": d})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	_, out := env.do(t, http.MethodGet, "/jobs/date-range?start=2024-03-01&end=2024-03-31", nil)
	list := decode[[]models.Job](t, out["jobs"])
	require.Len(t, list, 3)
	assert.Equal(t, []string{"2024-03-02", "2024-03-11", "2024-03-20"},
		[]string{list[0].PostedDate, list[1].PostedDate, list[2].PostedDate})

	for _, q := range []string{
		"?start=2024-03-31&end=2024-03-01",
		"?start=2024-03-01",
		"?start=March&end=2024-03-31",
	} {
		rec, _ := env.do(t, http.MethodGet, "/jobs/date-range"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}

func TestEditUser(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec, out := env.do(t, http.MethodPut, "/users", map[string]any{
		"userId":    "u1",
		"city":      "Mumbai",
		"instagram": "",
		"website":   nil,
		"version":   1,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	u := decode[models.User](t, out["user"])
	assert.Equal(t, "Mumbai", u.City)
	assert.Equal(t, "Asha", u.FullName)
	assert.Equal(t, int64(2), u.Version)

	rec, out = env.do(t, http.MethodGet, "/users/u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Mumbai", decode[models.User](t, out["user"]).City)
}

func TestEditUser_MissingUserScenario(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec, _ := env.do(t, http.MethodPut, "/users", map[string]any{"userId": "ghost", "city": "Pune"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := env.users.Get(context.Background(), "ghost")
	assert.Error(t, err, "no record is created")
}

func TestEditUser_Validation(t *testing.T) {
	env := newTestEnv(t, Options{})

	for _, body := range []any{
		map[string]any{"city": "Pune"},
		map[string]any{"userId": "u1", "password": "x"},
		map[string]any{"userId": "u1", "city": 42},
		map[string]any{"userId": 7},
		"[]",
	} {
		rec, _ := env.do(t, http.MethodPut, "/users", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "%v", body)
	}
}

func TestUpload(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec, out := env.do(t, http.MethodPost, "/uploads", map[string]any{
		"file":        base64.StdEncoding.EncodeToString([]byte("cv")),
		"folder":      "resumes",
		"filename":    "cv.pdf",
		"contentType": "application/pdf",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	url := decode[string](t, out["publicUrl"])
	assert.True(t, strings.HasPrefix(url, "https://katta.s3.ap-south-1.amazonaws.com/resumes/"), url)
	assert.True(t, strings.HasSuffix(url, "-cv.pdf"), url)
	assert.Equal(t, 1, env.putter.calls)
}

func TestUpload_Errors(t *testing.T) {
	env := newTestEnv(t, Options{UploadMaxBytes: 16})
	file := base64.StdEncoding.EncodeToString([]byte("cv"))

	rec, _ := env.do(t, http.MethodPost, "/uploads", map[string]any{"file": file, "folder": "secrets", "filename": "a"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/uploads", map[string]any{"folder": "images"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/uploads", map[string]any{
		"file": base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("x"), 200<<10)), "folder": "images",
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	env.putter.err = errors.New("S3 said no")
	rec, out := env.do(t, http.MethodPost, "/uploads", map[string]any{"file": file, "folder": "images", "filename": "a.png"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, decode[string](t, out["error"]), "S3 said no")
}

func TestAuth(t *testing.T) {
	const secret = "test-secret"
	env := newTestEnv(t, Options{SecretKey: secret})

	tok, err := auth.GenerateToken("u1", []byte(secret), time.Hour)
	require.NoError(t, err)
	other, err := auth.GenerateToken("u2", []byte(secret), time.Hour)
	require.NoError(t, err)
	expired, err := auth.GenerateToken("u1", []byte(secret), -time.Minute)
	require.NoError(t, err)

	job := map[string]any{"title": "Mural Artist", "postedDate": "2024-03-01"}

	rec, _ := env.do(t, http.MethodPost, "/jobs", job)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = env.do(t, http.MethodPost, "/jobs", job, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, out := env.do(t, http.MethodPost, "/jobs", job, "Authorization", "Bearer "+expired)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, `"token expired"`, string(out["error"]))

	rec, _ = env.do(t, http.MethodPost, "/jobs", job, "Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = env.do(t, http.MethodPut, "/users", map[string]any{"userId": "u1", "city": "Goa"}, "Authorization", "Bearer "+other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = env.do(t, http.MethodPut, "/users", map[string]any{"userId": "u1", "city": "Goa"}, "Authorization", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "reads stay public")
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, Options{CORSAllowedOrigins: []string{"https://artistkatta.com"}})

	req := httptest.NewRequest(http.MethodOptions, "/jobs", nil)
	req.Header.Set("Origin", "https://artistkatta.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://artistkatta.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewServer(Options{Address: "127.0.0.1:0", ShutdownTimeout: time.Second}, logging.Nop(),
		services.NewJobService(jobs.NewMemoryRepository()),
		services.NewUserService(users.NewMemoryRepository()),
		services.NewUploadService(&fakePutter{}, services.UploadOptions{}))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
