package commands

import (
	"github.com/linemk/storefront/cmd/storefront/output"
	"github.com/linemk/storefront/internal/client"
	"github.com/linemk/storefront/internal/reconcile"
	"github.com/spf13/cobra"
)

var (
	authName     string
	authEmail    string
	authPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and log in",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		res, err := s.api.Register(cmd.Context(), authName, authEmail, authPassword)
		if err != nil {
			return err
		}
		return saveAuth(s, res)
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		res, err := s.api.Login(cmd.Context(), authEmail, authPassword)
		if err != nil {
			return err
		}
		return saveAuth(s, res)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		if err := s.stash.Delete(reconcile.KeyAuth); err != nil {
			return err
		}
		output.Success("Logged out")
		return nil
	},
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the logged in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		token, err := s.requireToken()
		if err != nil {
			return err
		}
		user, err := s.api.Me(cmd.Context(), token)
		if err != nil {
			return err
		}
		output.Info("%s <%s>", user.Name, user.Email)
		if user.IsAdmin {
			output.Muted("admin")
		}
		return nil
	},
}

func saveAuth(s *session, res *client.AuthResult) error {
	if err := s.stash.Save(reconcile.KeyAuth, res); err != nil {
		return err
	}
	output.Success("Logged in as %s", res.User.Email)
	return nil
}

func init() {
	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, meCmd)

	registerCmd.Flags().StringVar(&authName, "name", "", "Display name (required)")
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Email (required)")
		c.Flags().StringVar(&authPassword, "password", "", "Password (required)")
		_ = c.MarkFlagRequired("email")
		_ = c.MarkFlagRequired("password")
	}
	_ = registerCmd.MarkFlagRequired("name")
}
