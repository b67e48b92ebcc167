package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fitpass-app/fitpass/internal/domain/profile"
	"github.com/fitpass-app/fitpass/internal/infrastructure/remote"
)

// maxAvatarBytes mirrors the backend's default upload limit.
const maxAvatarBytes = 5 << 20

func newProfileCommand(g *Globals) *cobra.Command {
	show := &cobra.Command{
		Use:   "show",
		Short: "Show your profile",
		RunE: runE(g, func(ctx context.Context, a *app, _ []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			p, err := remote.NewProfiles(a.gateway).GetProfile(ctx, sess)
			if err != nil {
				return err
			}
			t := newTable(a.out)
			t.row("Name", orDash(p.FullName))
			t.row("Email", p.Email)
			t.row("Role", p.Role)
			t.row("Onboarding", string(p.OnboardingStep))
			t.row("Avatar", orDash(p.AvatarURL))
			if len(p.Goals) > 0 {
				t.row("Goals", string(p.Goals))
			}
			if p.FamilyOwnerID != nil {
				t.row("Family owner", *p.FamilyOwnerID)
			}
			return t.flush()
		}),
	}

	var (
		fullName string
		goals    string
	)
	update := &cobra.Command{
		Use:   "update",
		Short: "Change your name or goals",
	}
	update.Flags().StringVar(&fullName, "name", "", "Full name")
	update.Flags().StringVar(&goals, "goals", "", "Goals as a JSON document")
	update.RunE = runE(g, func(ctx context.Context, a *app, _ []string) error {
		sess, err := a.session()
		if err != nil {
			return err
		}
		var upd remote.ProfileUpdate
		if update.Flags().Changed("name") {
			upd.FullName = &fullName
		}
		if goals != "" {
			if !json.Valid([]byte(goals)) {
				return fmt.Errorf("--goals must be valid JSON")
			}
			upd.Goals = json.RawMessage(goals)
		}
		if upd.FullName == nil && upd.Goals == nil {
			return fmt.Errorf("nothing to update: pass --name or --goals")
		}
		if _, err := remote.NewProfiles(a.gateway).UpdateProfile(ctx, sess, upd); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Profile updated")
		return nil
	})

	avatar := &cobra.Command{
		Use:   "avatar <image-file>",
		Short: "Upload a profile picture",
		Args:  cobra.ExactArgs(1),
		RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if len(data) > maxAvatarBytes {
				return fmt.Errorf("avatar exceeds %d bytes", maxAvatarBytes)
			}
			url, err := remote.NewProfiles(a.gateway).UploadAvatar(ctx, sess, filepath.Base(args[0]), data, http.DetectContentType(data))
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, url)
			return nil
		}),
	}

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "View and edit your profile",
	}
	cmd.AddCommand(show, update, avatar)
	return cmd
}

func newOnboardingCommand(g *Globals) *cobra.Command {
	advance := &cobra.Command{
		Use:       "advance <step>",
		Short:     "Move onboarding forward to a step",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(profile.StepProfile), string(profile.StepGoals), string(profile.StepAcademy), string(profile.StepDone)},
		RunE: runE(g, func(ctx context.Context, a *app, args []string) error {
			sess, err := a.session()
			if err != nil {
				return err
			}
			res, err := remote.NewProfiles(a.gateway).AdvanceOnboarding(ctx, sess, profile.Step(args[0]))
			if err != nil {
				return err
			}
			if res.Completed {
				fmt.Fprintln(a.out, "Onboarding complete")
				return nil
			}
			fmt.Fprintf(a.out, "Onboarding at step %s\n", res.Step)
			return nil
		}),
	}

	cmd := &cobra.Command{
		Use:   "onboarding",
		Short: "Track onboarding progress",
	}
	cmd.AddCommand(advance)
	return cmd
}
