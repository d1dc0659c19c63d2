package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/config"
)

func (a *app) newTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue or revoke access tokens signed with the server secret",
	}
	cmd.AddCommand(a.newTokenIssueCmd(), a.newTokenRevokeCmd())
	return cmd
}

func (a *app) newTokenIssueCmd() *cobra.Command {
	var in auth.GenerateTokenInput
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Mint an access token for local tooling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if cfg.JWT.Secret == "" {
				return errors.New("jwt.secret is not configured")
			}
			token, expires, err := auth.NewJWTService(cfg.JWT).GenerateAccessToken(in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.UTC().Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Subject, "subject", "", "staff id the token is issued to")
	cmd.Flags().StringVar(&in.Name, "name", "", "staff display name")
	cmd.Flags().StringVar(&in.Email, "email", "", "staff email")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}

func (a *app) newTokenRevokeCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "revoke <token>",
		Short: "Revoke a token, or with --all every token of its subject",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			claims, err := auth.NewJWTService(cfg.JWT).ValidateAccessToken(args[0])
			if err != nil {
				return fmt.Errorf("cannot revoke: %w", err)
			}

			blacklist, err := a.newBlacklist(cmd.Context(), cfg.Redis)
			if err != nil {
				return err
			}
			if c, ok := blacklist.(io.Closer); ok {
				defer c.Close()
			}

			if all {
				if err := blacklist.RevokeSubject(cmd.Context(), claims.Subject, cfg.JWT.AccessTokenExpiration); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "revoked all tokens of %s\n", claims.Subject)
				return nil
			}
			if err := blacklist.AddToBlacklist(cmd.Context(), claims.ID, claims.GetRemainingTTL()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked token %s\n", claims.ID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "revoke every token issued to the subject so far")
	return cmd
}

func newRedisBlacklist(ctx context.Context, cfg config.RedisConfig) (auth.TokenBlacklist, error) {
	if cfg.Host == "" {
		return nil, errors.New("redis.host is not configured; revocation needs the token blacklist")
	}
	return auth.NewRedisTokenBlacklist(ctx, cfg)
}
