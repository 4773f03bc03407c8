package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sethvargo/go-password/password"
	"github.com/spf13/cobra"

	"tenderdesk/models"
	"tenderdesk/services/portal"
)

func newLoginCmd() *cobra.Command {
	var passwordFlag string

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Authenticate against the portal and store the session token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			pass := passwordFlag
			if pass == "" {
				pass, err = promptLine("Password: ")
				if err != nil {
					return err
				}
			}

			if err := app.manager.Login(cmd.Context(), args[0], pass); err != nil {
				return err
			}

			user := app.manager.Session().User
			fmt.Printf("Logged in as %s (%s)\n", user.DisplayName(), user.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			app.manager.Bootstrap(cmd.Context())
			app.manager.Logout(cmd.Context())
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newRegisterCmd() *cobra.Command {
	var (
		email        string
		passwordFlag string
		generate     bool
		firstName    string
		lastName     string
		role         string
	)

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create a portal account and log in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			pass := passwordFlag
			if generate {
				pass, err = password.Generate(20, 4, 2, false, false)
				if err != nil {
					return fmt.Errorf("generate password: %w", err)
				}
			}
			if pass == "" {
				pass, err = promptLine("Password: ")
				if err != nil {
					return err
				}
			}

			reg := portal.RegisterRequest{
				Username:  args[0],
				Email:     email,
				Password:  pass,
				FirstName: firstName,
				LastName:  lastName,
				Role:      models.Role(role),
			}
			if reg.Role != "" && !reg.Role.IsValid() {
				return fmt.Errorf("invalid role %q", role)
			}

			if err := app.manager.Register(cmd.Context(), reg); err != nil {
				return err
			}

			if generate {
				fmt.Printf("Generated password: %s\n", pass)
			}
			user := app.manager.Session().User
			fmt.Printf("Registered and logged in as %s\n", user.Username)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().StringVarP(&passwordFlag, "password", "p", "", "password (prompted when omitted)")
	cmd.Flags().BoolVar(&generate, "generate-password", false, "generate a strong password and print it")
	cmd.Flags().StringVar(&firstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&role, "role", "", "requested role (admin, staff, vendor, evaluator)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.requireSession(cmd.Context()); err != nil {
				return err
			}

			user := app.manager.Session().User
			fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
			fmt.Printf("Username: %s\n", user.Username)
			fmt.Printf("Role:     %s\n", user.Role)
			return nil
		},
	}
}

func newProfileCmd() *cobra.Command {
	profile := &cobra.Command{
		Use:   "profile",
		Short: "Manage the current user's profile",
	}

	var (
		email     string
		firstName string
		lastName  string
	)

	update := &cobra.Command{
		Use:   "update",
		Short: "Update profile fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.requireSession(cmd.Context()); err != nil {
				return err
			}

			var patch portal.ProfileUpdate
			if cmd.Flags().Changed("email") {
				patch.Email = &email
			}
			if cmd.Flags().Changed("first-name") {
				patch.FirstName = &firstName
			}
			if cmd.Flags().Changed("last-name") {
				patch.LastName = &lastName
			}

			if err := app.manager.UpdateProfile(cmd.Context(), patch); err != nil {
				return err
			}
			fmt.Println("Profile updated")
			return nil
		},
	}

	update.Flags().StringVar(&email, "email", "", "new email")
	update.Flags().StringVar(&firstName, "first-name", "", "new first name")
	update.Flags().StringVar(&lastName, "last-name", "", "new last name")

	profile.AddCommand(update)
	return profile
}

func newPasswdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "passwd",
		Short: "Change the current user's password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.requireSession(cmd.Context()); err != nil {
				return err
			}

			oldPass, err := promptLine("Current password: ")
			if err != nil {
				return err
			}
			newPass, err := promptLine("New password: ")
			if err != nil {
				return err
			}

			if err := app.manager.ChangePassword(cmd.Context(), oldPass, newPass); err != nil {
				return err
			}
			fmt.Println("Password changed")
			return nil
		},
	}
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
