// Copyright (C) 2025, Sparkstack Labs Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"errors"
	"strconv"

	"github.com/manifoldco/promptui"
)

const (
	Yes = "Yes"
	No  = "No"
)

var errNoOptions = errors.New("no options to select from")

// promptUIRunner is a variable for testing purposes to allow mocking prompt.Run()
var promptUIRunner = func(prompt promptui.Prompt) (string, error) {
	return prompt.Run()
}

// promptUISelectRunner is a variable for testing purposes to allow mocking select.Run()
var promptUISelectRunner = func(sel promptui.Select) (int, string, error) {
	return sel.Run()
}

// Prompter is the interactive surface commands depend on, mockable in tests.
type Prompter interface {
	CaptureYesNo(promptStr string) (bool, error)
	CaptureIndex(promptStr string, options []string) (int, error)
	CaptureUint(promptStr string) (uint64, error)
}

type realPrompter struct{}

func NewPrompter() Prompter {
	return &realPrompter{}
}

func (*realPrompter) CaptureYesNo(promptStr string) (bool, error) {
	sel := promptui.Select{
		Label: promptStr,
		Items: []string{Yes, No},
	}
	_, decision, err := promptUISelectRunner(sel)
	if err != nil {
		return false, err
	}
	return decision == Yes, nil
}

func (*realPrompter) CaptureIndex(promptStr string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errNoOptions
	}
	sel := promptui.Select{
		Label: promptStr,
		Items: options,
		Size:  len(options),
	}
	idx, _, err := promptUISelectRunner(sel)
	return idx, err
}

func (*realPrompter) CaptureUint(promptStr string) (uint64, error) {
	prompt := promptui.Prompt{
		Label: promptStr,
		Validate: func(input string) error {
			_, err := strconv.ParseUint(input, 10, 64)
			return err
		},
	}
	raw, err := promptUIRunner(prompt)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(raw, 10, 64)
}
