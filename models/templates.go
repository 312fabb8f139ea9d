package models

import (
	"errors"
	"slices"
)

var (
	ErrInvalidTemplate = errors.New("invalid template type")
	ErrInvalidRelease  = errors.New("invalid release for template")
)

// ContainerTypes lists the releases available for each container template.
var ContainerTypes = map[string][]string{
	"ubuntu-cloud": {"trusty", "vivid", "precise"},
	"debian":       {"jessie"},
}

// templateImages maps a template to the image repository it is built from.
var templateImages = map[string]string{
	"ubuntu-cloud": "ubuntu",
	"debian":       "debian",
}

// ValidateTemplateRelease checks template and release against ContainerTypes.
func ValidateTemplateRelease(template, release string) error {
	releases, ok := ContainerTypes[template]
	if !ok {
		return ErrInvalidTemplate
	}
	if !slices.Contains(releases, release) {
		return ErrInvalidRelease
	}
	return nil
}

// ImageRef returns the image reference for a template and release, e.g.
// "ubuntu:trusty".
func ImageRef(template, release string) (string, error) {
	if err := ValidateTemplateRelease(template, release); err != nil {
		return "", err
	}
	return templateImages[template] + ":" + release, nil
}
