package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diewo77/qrsona/httpx"
	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/flow"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/policy"
	"github.com/diewo77/qrsona/internal/relation"
	"github.com/spf13/cobra"
)

func (a *app) profilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List your profiles, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, ok := a.sess.User()
			if !ok {
				return apperr.Auth("list profiles", "no session")
			}
			profiles, err := a.api.ListUserProfiles(cmd.Context(), u.ID)
			if err != nil {
				return err
			}
			if done, err := a.emit(profiles); done {
				return err
			}
			if len(profiles) == 0 {
				a.println(a.t("profile_required"))
				return nil
			}
			for _, p := range profiles {
				a.printf("%d\t%s\t%s\n", p.ID, p.DisplayName, p.Title)
			}
			return nil
		},
	}
}

func (a *app) profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show, create, update or delete a profile",
	}
	cmd.AddCommand(a.profileShowCmd(), a.profileCreateCmd(), a.profileUpdateCmd(), a.profileDeleteCmd())
	return cmd
}

func (a *app) profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <profile-id|url>",
		Short: "Show a profile you own or are connected to",
		Long: `Shows a profile. Profiles of other users are visible only when one of
your profiles is connected to it in either direction.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := flow.ParseScanned(args[0])
			if err != nil {
				return err
			}
			st, err := a.profileFlow().Load(cmd.Context(), id)
			if err != nil {
				if errors.Is(err, policy.ErrAccessDenied) && st != nil {
					a.printf("%s (#%d)\n", st.Profile.DisplayName, st.Profile.ID)
				}
				return err
			}
			if done, err := a.emit(st); done {
				return err
			}
			a.printProfile(st.Profile)
			if st.Form != nil {
				a.println()
				a.printRelation(st.Form.Selected, st.Profile.ID, st.Form.Outcome, st.Form.Meta)
			}
			return nil
		},
	}
}

func (a *app) profileCreateCmd() *cobra.Command {
	var pf profileFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new profile",
		Example: `  qrsona profile create --name Taro --title Engineer \
    --option "好きな言語=Go" --link "GitHub=https://github.com/taro"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := pf.input()
			if err != nil {
				return err
			}
			if v := in.Validate(true); !v.Empty() {
				return apperr.Validation("create profile", v)
			}
			p, err := a.api.CreateProfile(cmd.Context(), in)
			if err != nil {
				return err
			}
			if done, err := a.emit(p); done {
				return err
			}
			a.printf("%s #%d\n", a.t("profile_created"), p.ID)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func (a *app) profileUpdateCmd() *cobra.Command {
	var pf profileFlags
	cmd := &cobra.Command{
		Use:   "update <profile-id>",
		Short: "Update one of your profiles; omitted fields are kept",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := httpx.ParseID(args[0])
			if err != nil {
				return apperr.Validation("update profile", map[string]string{"id": "invalid_id"})
			}
			in, err := pf.input()
			if err != nil {
				return err
			}
			if v := in.Validate(false); !v.Empty() {
				return apperr.Validation("update profile", v)
			}
			p, err := a.api.UpdateProfile(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			if done, err := a.emit(p); done {
				return err
			}
			a.printProfile(p)
			return nil
		},
	}
	pf.register(cmd)
	return cmd
}

func (a *app) profileDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <profile-id>",
		Short: "Delete one of your profiles and all of its connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := httpx.ParseID(args[0])
			if err != nil {
				return apperr.Validation("delete profile", map[string]string{"id": "invalid_id"})
			}
			if err := a.api.DeleteProfile(cmd.Context(), id); err != nil {
				return err
			}
			a.println(a.t("profile_deleted"))
			return nil
		},
	}
}

// profileFlags binds the editable profile fields.
type profileFlags struct {
	in      models.ProfileInput
	options []string
	links   []string
}

func (pf *profileFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&pf.in.DisplayName, "name", "", "Display name")
	f.StringVar(&pf.in.Title, "title", "", "Title or role")
	f.StringVar(&pf.in.Description, "description", "", "Short bio")
	f.StringVar(&pf.in.AKA, "aka", "", "Nickname")
	f.StringVar(&pf.in.Hometown, "hometown", "", "Hometown")
	f.StringVar(&pf.in.Birthdate, "birthdate", "", "Birthdate (YYYY-MM-DD)")
	f.StringVar(&pf.in.Hobby, "hobby", "", "Hobby")
	f.StringVar(&pf.in.Comment, "comment", "", "Free comment")
	f.StringVar(&pf.in.IconURL, "icon", "", "Icon image URL")
	f.StringArrayVar(&pf.options, "option", nil, `Custom field as "title=content" (repeatable)`)
	f.StringArrayVar(&pf.links, "link", nil, `Link as "title=url" (repeatable)`)
}

func (pf *profileFlags) input() (models.ProfileInput, error) {
	in := pf.in
	for i, raw := range pf.options {
		title, content, ok := strings.Cut(raw, "=")
		if !ok {
			return in, apperr.Validation("profile", map[string]string{fmt.Sprintf("option_profiles[%d]", i): "invalid_request"})
		}
		in.Options = append(in.Options, models.OptionField{Title: strings.TrimSpace(title), Content: strings.TrimSpace(content)})
	}
	for i, raw := range pf.links {
		title, u, ok := strings.Cut(raw, "=")
		if !ok {
			return in, apperr.Validation("profile", map[string]string{fmt.Sprintf("links[%d]", i): "invalid_request"})
		}
		in.Links = append(in.Links, models.Link{Title: strings.TrimSpace(title), URL: strings.TrimSpace(u)})
	}
	return in, nil
}

func (a *app) printProfile(p *models.Profile) {
	a.printf("#%d %s\n", p.ID, p.DisplayName)
	fields := []struct{ label, value string }{
		{"title", p.Title},
		{"aka", p.AKA},
		{"description", p.Description},
		{"hometown", p.Hometown},
		{"birthdate", p.Birthdate},
		{"hobby", p.Hobby},
		{"comment", p.Comment},
	}
	for _, f := range fields {
		if f.value != "" {
			a.printf("  %-12s %s\n", f.label, f.value)
		}
	}
	for _, o := range p.Options {
		a.printf("  %-12s %s\n", o.Title, o.Content)
	}
	for _, l := range p.Links {
		a.printf("  [%s] %s\n", l.Title, l.URL)
	}
}

func (a *app) printRelation(my, their uint, out relation.Outcome, meta models.EventMeta) {
	var msg string
	switch out.Direction {
	case relation.Forward:
		msg = a.t("relation_forward")
	case relation.Reverse:
		msg = a.t("relation_reverse")
	default:
		msg = a.t("relation_none")
	}
	a.printf("#%d -> #%d: %s", my, their, msg)
	if out.Found() {
		a.printf(" (connection #%d)", out.ConnectionID)
	}
	a.println()
	if !meta.IsZero() {
		a.printf("  event: %s %s\n", meta.EventName, meta.EventDate)
		if meta.Memo != "" {
			a.printf("  memo:  %s\n", meta.Memo)
		}
	}
}
