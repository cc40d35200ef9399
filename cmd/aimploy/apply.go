package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"aimploy/internal/apply"
	"aimploy/pkg/client"
	"aimploy/pkg/types"

	"github.com/gabriel-vasile/mimetype"
	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var applyCommand = &cli.Command{
	Name:  "apply",
	Usage: "Submit an application to a running server through the upload and submission API",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "server",
			Usage: "Base URL of the aimploy server",
			Value: "http://localhost:8080",
		},
		&cli.StringFlag{Name: "name", Required: true},
		&cli.StringFlag{Name: "email", Required: true},
		&cli.StringFlag{Name: "phone", Required: true},
		&cli.PathFlag{
			Name:     "resume",
			Usage:    "Resume file (pdf, doc, docx or txt)",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "answer",
			Usage: "Text answer to the behavioral question",
		},
		&cli.PathFlag{
			Name:  "audio",
			Usage: "Audio answer file",
		},
		&cli.PathFlag{
			Name:  "video",
			Usage: "Video answer file",
		},
		&cli.BoolFlag{
			Name:  "legacy-fields",
			Usage: "Also send the legacy top-level answer fields",
			Value: true,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Overall time allowed for uploads and submission",
			Value: 5 * time.Minute,
		},
	},
	Action: runApply,
}

func runApply(c *cli.Context) error {
	logger := logrus.New()

	ctx, cancel := context.WithTimeout(context.Background(), c.Duration("timeout"))
	defer cancel()

	resume, err := readApplyFile(c.Path("resume"), "")
	if err != nil {
		return err
	}

	audio, err := readApplyFile(c.Path("audio"), "audio/")
	if err != nil {
		return err
	}

	video, err := readApplyFile(c.Path("video"), "video/")
	if err != nil {
		return err
	}

	api := client.New(c.String("server"))
	form := apply.New(api, api,
		apply.WithLegacyFields(c.Bool("legacy-fields")),
		apply.WithLogger(logger),
	)

	receipt, err := submitApplication(ctx, form, types.PersonalInfo{
		Name:  c.String("name"),
		Email: c.String("email"),
		Phone: c.String("phone"),
	}, resume, c.String("answer"), audio, video)
	if err != nil {
		return err
	}

	_, err = pp.Println(receipt)
	return err
}

// submitApplication walks the form through every step.
func submitApplication(ctx context.Context, form *apply.Form, info types.PersonalInfo, resume *apply.File, answer string, audio, video *apply.File) (*types.ApplicationReceipt, error) {
	if err := form.SubmitPersonalInfo(info); err != nil {
		return nil, describeStepError(apply.StepPersonalInfo, err)
	}

	if err := form.SubmitResume(ctx, resume); err != nil {
		return nil, describeStepError(apply.StepResume, err)
	}

	if err := form.SubmitBehavioral(ctx, answer, audio, video); err != nil {
		return nil, describeStepError(apply.StepBehavioral, err)
	}

	return form.State().Receipt, nil
}

func describeStepError(step apply.Step, err error) error {
	var validationErr *apply.ValidationError
	if errors.As(err, &validationErr) {
		return fmt.Errorf("%s: %s", step, validationErr.Error())
	}

	var uploadErr *apply.UploadError
	if errors.As(err, &uploadErr) {
		return fmt.Errorf("%s: %s: %w", step, uploadErr.Message(), uploadErr.Err)
	}

	return fmt.Errorf("%s: %w", step, err)
}

// readApplyFile loads a file from disk and sniffs its content type. An
// empty path yields nil. Containers such as webm and ogg sniff as video
// even when they only hold sound, so an audio answer is relabelled.
func readApplyFile(path, family string) (*apply.File, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	contentType := mimetype.Detect(data).String()
	if family == "audio/" && strings.HasPrefix(contentType, "video/") {
		contentType = "audio/" + strings.TrimPrefix(contentType, "video/")
	}

	return &apply.File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
