package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ressourcefy/internal/domain/entity"
	"ressourcefy/internal/domain/onboarding"
)

// errInvalidForm is returned after the field errors have been printed.
var errInvalidForm = errors.New("form is invalid")

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an onboarding form",
		Long: `Validate an onboarding form with the same rules the gateway applies.

Exit codes:
  0 - the form is valid, normalized JSON is printed
  1 - the form is invalid, one "field: message" line per error on stderr`,
	}
	cmd.AddCommand(newValidateProfileCmd(), newValidateInterestsCmd())
	return cmd
}

func newValidateProfileCmd() *cobra.Command {
	var in onboarding.ProfileInput

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Validate the profile step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := onboarding.ValidateProfile(in)
			return report(cmd, out, err)
		},
	}
	cmd.Flags().StringVar(&in.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&in.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&in.Bio, "bio", "", "short bio")
	return cmd
}

func newValidateInterestsCmd() *cobra.Command {
	var in onboarding.InterestsInput

	cmd := &cobra.Command{
		Use:   "interests",
		Short: "Validate the interests step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := onboarding.ValidateInterests(in)
			return report(cmd, out, err)
		},
	}
	cmd.Flags().StringArrayVar(&in.Interests, "interest", nil, "an interest (repeatable)")
	return cmd
}

func report(cmd *cobra.Command, out any, err error) error {
	if err != nil {
		var fields entity.ValidationErrors
		if !errors.As(err, &fields) {
			return err
		}
		for _, f := range fields {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", f.Field, f.Message)
		}
		return errInvalidForm
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
