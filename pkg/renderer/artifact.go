package renderer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/nikogura/resume-builder/pkg/resume"
)

// Artifacts holds the paths written for one generation. PDF is empty when no
// PDF was produced.
type Artifacts struct {
	HTML string `json:"html"`
	JSON string `json:"json"`
	PDF  string `json:"pdf,omitempty"`
}

// Stem is the shared file name prefix for artifacts created at t,
// e.g. resume_20250314_090000.
func Stem(t time.Time) (stem string) {
	stem = "resume_" + t.Format("20060102_150405")
	return stem
}

// WriteFile writes content to outputPath, creating parent directories.
func WriteFile(content []byte, outputPath string) (err error) {
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(outputPath, content, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write file: %s", outputPath)
		return err
	}

	return err
}

// WriteArtifacts writes <stem>.html, <stem>.json and, when pdf is non-nil,
// <stem>.pdf into dir. On failure the files already written are removed.
func WriteArtifacts(dir, stem string, html []byte, rec resume.Record, pdf []byte) (artifacts Artifacts, err error) {
	var data []byte
	data, err = json.MarshalIndent(rec, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal resume")
		return artifacts, err
	}

	base := filepath.Join(dir, stem)
	written := []string{}

	files := []struct {
		path    string
		content []byte
	}{
		{path: base + ".html", content: html},
		{path: base + ".json", content: data},
	}
	if pdf != nil {
		files = append(files, struct {
			path    string
			content []byte
		}{path: base + ".pdf", content: pdf})
	}

	for _, f := range files {
		err = WriteFile(f.content, f.path)
		if err != nil {
			_ = Cleanup(written...)
			return artifacts, err
		}
		written = append(written, f.path)
	}

	artifacts = Artifacts{HTML: base + ".html", JSON: base + ".json"}
	if pdf != nil {
		artifacts.PDF = base + ".pdf"
	}

	return artifacts, err
}

// Cleanup removes files, ignoring ones that are already gone.
func Cleanup(paths ...string) (err error) {
	for _, path := range paths {
		err = os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			err = errors.Wrapf(err, "failed to remove file: %s", path)
			return err
		}
		err = nil
	}
	return err
}
