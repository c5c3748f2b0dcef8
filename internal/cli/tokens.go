package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/phone-token-service/internal/domain"
	"github.com/spf13/cobra"
)

func newResolveCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [phone...]",
		Short: "Resolve phones to tokens, issuing tokens for new phones",
		Long: `Resolve prints "phone<TAB>token" for each phone. With no arguments it
reads one phone per line from stdin, which makes it handy for seeding test
users in bulk.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ctx, cancel, err := registry(cmd, open)
			if err != nil {
				return err
			}
			defer cancel()

			phones := args
			if len(phones) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if line := strings.TrimSpace(sc.Text()); line != "" {
						phones = append(phones, line)
					}
				}
				if err := sc.Err(); err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			for _, p := range phones {
				tok, err := svc.ResolveToken(ctx, p)
				if err != nil {
					return fmt.Errorf("resolving %q: %w", p, err)
				}
				fmt.Fprintf(out, "%s\t%s\n", p, tok)
			}
			return nil
		},
	}
}

func newReverseCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "reverse <token>",
		Short: "Print the phone number behind a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ctx, cancel, err := registry(cmd, open)
			if err != nil {
				return err
			}
			defer cancel()

			phone, err := svc.ReverseResolveToken(ctx, args[0])
			if errors.Is(err, domain.ErrUnknownToken) {
				return fmt.Errorf("token %s was never issued", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), phone)
			return nil
		},
	}
}

func newExistsCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <phone>",
		Short: "Report whether a phone already has a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ctx, cancel, err := registry(cmd, open)
			if err != nil {
				return err
			}
			defer cancel()

			ok, err := svc.TokenExistsForPhone(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			return nil
		},
	}
}

func newLinkCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "link <token> <external-id>",
		Short: "Link an external account id to a token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ctx, cancel, err := registry(cmd, open)
			if err != nil {
				return err
			}
			defer cancel()

			return svc.LinkExternalID(ctx, args[0], args[1])
		},
	}
}

func newExternalCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "external <external-id>",
		Short: "Print the token linked to an external account id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, ctx, cancel, err := registry(cmd, open)
			if err != nil {
				return err
			}
			defer cancel()

			tok, err := svc.ResolveTokenFromExternalID(ctx, args[0])
			if err != nil {
				return err
			}
			if tok == "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s is not linked\n", args[0])
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
}
