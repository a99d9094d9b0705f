package main

import (
	"errors"

	"github.com/diewo77/qrsona/httpx"
	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/flow"
	"github.com/diewo77/qrsona/internal/models"
	"github.com/diewo77/qrsona/internal/relation"
	"github.com/spf13/cobra"
)

// metaFlags binds event metadata. Unset flags keep the prefilled value.
type metaFlags struct {
	meta models.EventMeta
}

func (m *metaFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&m.meta.EventName, "event", "", "Where you met")
	f.StringVar(&m.meta.EventDate, "date", "", "When you met (YYYY-MM-DD)")
	f.StringVar(&m.meta.Memo, "memo", "", "Free memo")
}

func (m *metaFlags) merge(cmd *cobra.Command, prefill models.EventMeta) models.EventMeta {
	out := prefill
	f := cmd.Flags()
	if f.Changed("event") {
		out.EventName = m.meta.EventName
	}
	if f.Changed("date") {
		out.EventDate = m.meta.EventDate
	}
	if f.Changed("memo") {
		out.Memo = m.meta.Memo
	}
	return out
}

func (a *app) exchangeCmd() *cobra.Command {
	var (
		mf     metaFlags
		from   uint
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "exchange <scanned-url|profile-id>",
		Short: "Connect with the profile of a scanned QR code",
		Long: `Connects one of your profiles with a scanned profile. A new exchange
records the connection on both sides; an existing one is edited in place.`,
		Example: `  qrsona exchange "https://qrsona.app/exchange?profileId=42" --event "Go Conference" --date 2024-06-01
  qrsona exchange 42 --from 7 --memo "talked about generics"
  qrsona exchange 42 --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := flow.ParseScanned(args[0])
			if err != nil {
				return err
			}
			ef := a.exchangeFlow()
			st, err := ef.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			if from != 0 && from != st.Selected {
				if err := ef.Select(cmd.Context(), st, from); err != nil {
					return err
				}
			}
			a.printf("%s (#%d)\n", st.Scanned.DisplayName, st.Scanned.ID)
			a.printRelation(st.Selected, st.Scanned.ID, st.Outcome, st.Meta)
			if dryRun {
				return nil
			}
			res, err := ef.Submit(cmd.Context(), st, mf.merge(cmd, st.Meta))
			if err != nil {
				return err
			}
			return a.reportResult(res)
		},
	}
	mf.register(cmd)
	cmd.Flags().UintVar(&from, "from", 0, "Which of your profiles to connect (default: newest)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Only show the current relationship")
	return cmd
}

func (a *app) friendCmd() *cobra.Command {
	var (
		mf   metaFlags
		from uint
	)
	cmd := &cobra.Command{
		Use:   "friend <profile-id>",
		Short: "Add or edit a friend from a profile you can view",
		Long: `Records a one-sided connection from one of your profiles, or edits the
existing connection in whichever direction it was found.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := flow.ParseScanned(args[0])
			if err != nil {
				return err
			}
			pf := a.profileFlow()
			st, err := pf.Load(cmd.Context(), id)
			if err != nil {
				return err
			}
			if st.Owner {
				return apperr.Validation("add friend", map[string]string{"profile_id": "self_connection"})
			}
			if st.Form == nil {
				return flow.ErrNoProfile
			}
			if from != 0 && from != st.Form.Selected {
				if err := pf.Select(cmd.Context(), st, from); err != nil {
					return err
				}
			}
			res, err := pf.SubmitFriend(cmd.Context(), st, mf.merge(cmd, st.Form.Meta))
			if err != nil {
				return err
			}
			return a.reportResult(res)
		},
	}
	mf.register(cmd)
	cmd.Flags().UintVar(&from, "from", 0, "Which of your profiles to connect (default: newest)")
	return cmd
}

func (a *app) resolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <my-profile-id> <their-profile-id>",
		Short: "Show how two profiles are connected",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			my, their, err := parsePair(args)
			if err != nil {
				return err
			}
			out, err := a.resolver().Resolve(cmd.Context(), my, their)
			if err != nil {
				return err
			}
			if done, err := a.emit(map[string]any{
				"direction":     out.Direction.String(),
				"connection_id": out.ConnectionID,
			}); done {
				return err
			}
			meta := models.EventMeta{}
			if out.Connection != nil {
				meta = out.Connection.Meta()
			}
			a.printRelation(my, their, out, meta)
			return nil
		},
	}
}

func (a *app) connectionsCmd() *cobra.Command {
	var profileID uint
	cmd := &cobra.Command{
		Use:   "connections",
		Short: "List the connections recorded from your profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := []uint{profileID}
			if profileID == 0 {
				u, ok := a.sess.User()
				if !ok {
					return apperr.Auth("list connections", "no session")
				}
				mine, err := a.api.ListUserProfiles(cmd.Context(), u.ID)
				if err != nil {
					return err
				}
				ids = ids[:0]
				for _, p := range mine {
					ids = append(ids, p.ID)
				}
			}
			all := []models.Connection{}
			for _, id := range ids {
				conns, err := a.api.ListConnections(cmd.Context(), id)
				if err != nil {
					return err
				}
				all = append(all, conns...)
			}
			if done, err := a.emit(all); done {
				return err
			}
			for _, c := range all {
				a.printf("%d\t#%d -> #%d\t%s\t%s\t%s\n", c.ID, c.ProfileID, c.ConnectUserProfileID, c.EventName, c.EventDate, c.Memo)
			}
			return nil
		},
	}
	cmd.Flags().UintVar(&profileID, "profile", 0, "Only this profile (default: all of yours)")
	cmd.AddCommand(&cobra.Command{
		Use:   "show <connection-id>",
		Short: "Show one connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := httpx.ParseID(args[0])
			if err != nil {
				return apperr.Validation("show connection", map[string]string{"id": "invalid_id"})
			}
			c, err := a.api.GetConnection(cmd.Context(), id)
			if err != nil {
				return err
			}
			if done, err := a.emit(c); done {
				return err
			}
			a.printf("#%d -> #%d (connection #%d)\n", c.ProfileID, c.ConnectUserProfileID, c.ID)
			if meta := c.Meta(); !meta.IsZero() {
				a.printf("  event: %s %s\n", meta.EventName, meta.EventDate)
				if meta.Memo != "" {
					a.printf("  memo:  %s\n", meta.Memo)
				}
			}
			a.printf("  connected: %s\n", c.ConnectedAt.Format("2006-01-02 15:04"))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <connection-id>",
		Short: "Delete a single directed connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := httpx.ParseID(args[0])
			if err != nil {
				return apperr.Validation("delete connection", map[string]string{"id": "invalid_id"})
			}
			if err := a.api.DeleteConnection(cmd.Context(), id); err != nil {
				return err
			}
			a.println(a.t("connection_deleted"))
			return nil
		},
	})
	return cmd
}

func (a *app) mirrorCmd() *cobra.Command {
	var mf metaFlags
	cmd := &cobra.Command{
		Use:   "mirror <my-profile-id> <their-profile-id>",
		Short: "Create the other side of an exchange when it is missing",
		Long: `Retries the second write of an exchange that ended one-sided. Nothing
is written when the other side already exists.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			my, their, err := parsePair(args)
			if err != nil {
				return err
			}
			c, err := a.reconciler().EnsureMirror(cmd.Context(), a.api, my, their, mf.merge(cmd, models.EventMeta{}))
			if errors.Is(err, relation.ErrMirrorExists) {
				a.printf("%s (connection #%d)\n", a.t("conflict"), c.ID)
				return nil
			}
			if err != nil {
				return err
			}
			a.printf("%s (connection #%d)\n", a.t("mirror_created"), c.ID)
			return nil
		},
	}
	mf.register(cmd)
	return cmd
}

func (a *app) reportResult(res relation.Result) error {
	if done, err := a.emit(map[string]any{
		"status":        res.Status.String(),
		"connection_id": res.ConnectionID,
		"mirror_id":     res.MirrorID,
	}); done {
		return err
	}
	switch res.Status {
	case relation.Updated:
		a.printf("%s (connection #%d)\n", a.t("friend_updated"), res.ConnectionID)
	case relation.ForwardOnly:
		a.printf("%s (connection #%d)\n", a.t("friend_added_one_sided"), res.ConnectionID)
		if res.MirrorErr != nil {
			a.logger.Warn("mirror write failed", "err", res.MirrorErr)
		}
	default:
		a.printf("%s (connection #%d)\n", a.t("friend_added"), res.ConnectionID)
	}
	return nil
}

func parsePair(args []string) (uint, uint, error) {
	my, err := httpx.ParseID(args[0])
	if err != nil {
		return 0, 0, apperr.Validation("profile pair", map[string]string{"my_profile_id": "invalid_id"})
	}
	their, err := httpx.ParseID(args[1])
	if err != nil {
		return 0, 0, apperr.Validation("profile pair", map[string]string{"their_profile_id": "invalid_id"})
	}
	return my, their, nil
}
