package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/artistkatta/jobservice/internal/common"
	"github.com/artistkatta/jobservice/internal/server/models"
)

var jobStringFields = map[string]func(p *models.JobPatch, v string){
	"title":       func(p *models.JobPatch, v string) { p.Title = &v },
	"company":     func(p *models.JobPatch, v string) { p.Company = &v },
	"companyLogo": func(p *models.JobPatch, v string) { p.CompanyLogo = &v },
	"location":    func(p *models.JobPatch, v string) { p.Location = &v },
	"type":        func(p *models.JobPatch, v string) { p.Type = &v },
	"category":    func(p *models.JobPatch, v string) { p.Category = &v },
	"salary":      func(p *models.JobPatch, v string) { p.Salary = &v },
	"deadline":    func(p *models.JobPatch, v string) { p.Deadline = &v },
	"description": func(p *models.JobPatch, v string) { p.Description = &v },
}

// jobArgs is a parsed job command: the field patch plus the key and
// concurrency arguments that are not job fields.
type jobArgs struct {
	patch      models.JobPatch
	postedDate string
}

func parseJobArgs(args []string) (jobArgs, error) {
	var out jobArgs

	kv, err := parseKV(args)
	if err != nil {
		return out, err
	}

	for k, v := range kv {
		if set, ok := jobStringFields[k]; ok {
			set(&out.patch, v)
			continue
		}

		switch k {
		case "postedDate":
			out.postedDate = v
		case "requirements":
			reqs := []string{}
			for _, r := range strings.Split(v, ",") {
				if r = strings.TrimSpace(r); r != "" {
					reqs = append(reqs, r)
				}
			}
			out.patch.Requirements = &reqs
		case "featured":
			b, err := strconv.ParseBool(v)
			if err != nil {
				return out, fmt.Errorf("%w: featured must be true or false", common.ErrValidation)
			}
			out.patch.Featured = &b
		case "version":
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return out, fmt.Errorf("%w: version must be a number", common.ErrValidation)
			}
			out.patch.ExpectedVersion = &n
		default:
			return out, fmt.Errorf("%w: unknown job field %q", common.ErrValidation, k)
		}
	}
	return out, nil
}

func (a *App) JobCreate(ctx context.Context, args []string) error {
	parsed, err := parseJobArgs(args)
	if err != nil {
		return err
	}

	job := &models.Job{PostedDate: parsed.postedDate}
	parsed.patch.Apply(job)

	created, err := a.api.CreateJob(ctx, job)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Created job %s posted %s", created.JobID, created.PostedDate))
	return nil
}

func (a *App) JobGet(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: job get <jobId>")
		return nil
	}

	job, err := a.api.GetJob(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(job)
}

func (a *App) JobEdit(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: job edit <jobId> postedDate=YYYY-MM-DD key=value...")
		return nil
	}

	parsed, err := parseJobArgs(args[1:])
	if err != nil {
		return err
	}

	job, err := a.api.EditJob(ctx, args[0], parsed.postedDate, parsed.patch)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Updated job %s (version %d)", job.JobID, job.Version))
	return nil
}

func (a *App) JobList(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: job list <start> <end>")
		return nil
	}

	jobs, err := a.api.ListJobsByDateRange(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if len(jobs) == 0 {
		printlnFn("No jobs found")
		return nil
	}
	for _, j := range jobs {
		printlnFn(fmt.Sprintf("%s  %s  %s", j.PostedDate, j.JobID, j.Title))
	}
	return nil
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	printlnFn(string(b))
	return nil
}
