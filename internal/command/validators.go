// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"

	"github.com/csvcmp/csvcmp/internal/export"
	"github.com/csvcmp/csvcmp/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

// ExportValidator accepts an empty value, meaning no export.
func ExportValidator(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	_, err := export.ParseMode(s)
	return err
}

func DestValidator(value any) error {
	s, _ := value.(string)
	_, err := export.ParseDestination(s)
	return err
}
