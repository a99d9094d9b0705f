package main

import (
	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/session"
	"github.com/spf13/cobra"
)

func (a *app) signupCmd() *cobra.Command {
	var req models.SignUpRequest
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in",
		Example: `  qrsona signup --name "Taro Yamada" --email taro@example.com --password ********`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.api.SignUp(cmd.Context(), req)
			if err != nil {
				return err
			}
			if err := a.saveSession(resp); err != nil {
				return err
			}
			a.println(a.t("signed_up"), resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "Display name of the account")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password (at least 8 characters)")
	return cmd
}

func (a *app) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.api.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			if err := a.saveSession(resp); err != nil {
				return err
			}
			a.println(a.t("signed_in"), resp.User.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.sess.Clear(); err != nil {
				return err
			}
			a.println(a.t("signed_out"))
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := a.sess.User()
			if !ok {
				return apperr.Auth("whoami", "no session")
			}
			if done, err := a.emit(u); done {
				return err
			}
			a.printf("%d\t%s\t%s\n", u.ID, u.Name, u.Email)
			return nil
		},
	}
}

func (a *app) saveSession(resp *models.AuthResponse) error {
	return a.sess.Save(session.User{ID: resp.User.ID, Name: resp.User.Name, Email: resp.User.Email}, resp.Token)
}
