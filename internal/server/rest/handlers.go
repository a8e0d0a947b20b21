package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/models"
	"github.com/artistkatta/jobservice/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) createJob(c *gin.Context) {
	var req createJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, bindError(err))
		return
	}

	job, err := s.jobs.Create(c.Request.Context(), req.job())
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "job created", "job_id", job.JobID, "posted_date", job.PostedDate)
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (s *Server) getJob(c *gin.Context) {
	job, err := s.jobs.Get(c.Request.Context(), c.Param("jobId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (s *Server) editJob(c *gin.Context) {
	var req editJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, bindError(err))
		return
	}

	job, err := s.jobs.Edit(c.Request.Context(), c.Param("jobId"), req.PostedDate, req.patch())
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "job updated", "job_id", job.JobID, "version", job.Version)
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (s *Server) listJobsByDateRange(c *gin.Context) {
	var q dateRangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		s.fail(c, bindError(err))
		return
	}

	list, err := s.jobs.ListByDateRange(c.Request.Context(), q.Start, q.End)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": list})
}

func (s *Server) getUser(c *gin.Context) {
	u, err := s.users.Get(c.Request.Context(), c.Param("userId"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// readOnlyUserKeys may appear when a client echoes a stored profile back;
// they are ignored rather than rejected.
var readOnlyUserKeys = map[string]bool{"version": true, "updatedAt": true}

func (s *Server) editUser(c *gin.Context) {
	patch, err := decodeUserPatch(c)
	if err != nil {
		s.fail(c, err)
		return
	}

	if patch.UserID != "" && !s.authorizedFor(c, patch.UserID) {
		s.fail(c, fmt.Errorf("%w: token does not belong to user %s", common.ErrForbidden, patch.UserID))
		return
	}

	u, err := s.users.Edit(c.Request.Context(), patch)
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "user updated", "user_id", u.UserID, "fields", len(patch.Fields))
	c.JSON(http.StatusOK, gin.H{"user": u})
}

// decodeUserPatch reads a flat JSON object. userId and expectedVersion are
// control keys; every other non-null key is a profile field to write.
func decodeUserPatch(c *gin.Context) (models.UserPatch, error) {
	var raw map[string]json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		return models.UserPatch{}, bindError(err)
	}

	patch := models.UserPatch{Fields: map[string]string{}}
	for key, value := range raw {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) || readOnlyUserKeys[key] {
			continue
		}

		switch key {
		case "userId":
			if err := json.Unmarshal(value, &patch.UserID); err != nil {
				return models.UserPatch{}, fmt.Errorf("%w: userId must be a string", common.ErrValidation)
			}
		case "expectedVersion":
			var v int64
			if err := json.Unmarshal(value, &v); err != nil {
				return models.UserPatch{}, fmt.Errorf("%w: expectedVersion must be an integer", common.ErrValidation)
			}
			patch.ExpectedVersion = &v
		default:
			var v string
			if err := json.Unmarshal(value, &v); err != nil {
				return models.UserPatch{}, fmt.Errorf("%w: %s must be a string", common.ErrValidation, key)
			}
			patch.Fields[key] = v
		}
	}
	return patch, nil
}

func (s *Server) upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, bindError(err))
		return
	}

	url, err := s.uploads.Upload(c.Request.Context(), services.UploadInput{
		File:        req.File,
		Folder:      req.Folder,
		Filename:    req.Filename,
		ContentType: req.ContentType,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	s.logger.Info(c.Request.Context(), "file uploaded", "folder", req.Folder, "url", url)
	c.JSON(http.StatusCreated, gin.H{"publicUrl": url})
}
