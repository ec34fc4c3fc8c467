// Package update checks GitHub releases for a newer clipster build.
package update

import (
	"context"
	"fmt"

	"github.com/creativeprojects/go-selfupdate"
)

// Version is set at build time via -ldflags.
var Version = "0.0.0-dev"

var repository = selfupdate.NewRepositorySlug("HugoSbl", "clipster")

type Checker struct {
	source selfupdate.Source
}

func NewChecker() (*Checker, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, fmt.Errorf("failed to create update source: %w", err)
	}
	return &Checker{source: source}, nil
}

// Check reports whether a newer release exists and returns it.
func (c *Checker) Check(ctx context.Context) (bool, *selfupdate.Release, error) {
	updater, err := selfupdate.NewUpdater(selfupdate.Config{
		Source: c.source,
		Validator: &selfupdate.ChecksumValidator{
			UniqueFilename: "checksums.txt",
		},
	})
	if err != nil {
		return false, nil, err
	}

	release, found, err := updater.DetectLatest(ctx, repository)
	if err != nil {
		return false, nil, err
	}
	if !found {
		return false, nil, fmt.Errorf("no releases found")
	}

	return release.GreaterThan(Version), release, nil
}
