package main

import (
	"encoding/base64"
	"os"
	"strings"

	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/flow"
	"github.com/spf13/cobra"
)

const dataURIPrefix = "data:image/png;base64,"

func (a *app) qrCmd() *cobra.Command {
	var (
		profileID uint
		outPath   string
	)
	cmd := &cobra.Command{
		Use:   "qr",
		Short: "Render the QR code others scan to connect with you",
		Example: `  qrsona qr --out me.png
  qrsona qr --profile 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if profileID == 0 {
				u, ok := a.sess.User()
				if !ok {
					return apperr.Auth("qr", "no session")
				}
				mine, err := a.api.ListUserProfiles(cmd.Context(), u.ID)
				if err != nil {
					return err
				}
				if len(mine) == 0 {
					return flow.ErrNoProfile
				}
				profileID = mine[0].ID
			}

			link := flow.ProfileLink(a.cfg.AppURL, profileID)
			resp, err := a.api.GenerateQR(cmd.Context(), link)
			if err != nil {
				return err
			}
			if outPath == "" {
				if done, err := a.emit(resp); done {
					return err
				}
				a.println(resp.URL)
				a.println(resp.QRData)
				return nil
			}
			png, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(resp.QRData, dataURIPrefix))
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, png, 0o644); err != nil {
				return err
			}
			a.printf("%s: %s (%s)\n", a.t("qr_saved"), outPath, resp.URL)
			return nil
		},
	}
	cmd.Flags().UintVar(&profileID, "profile", 0, "Profile to share (default: your newest)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the PNG to this file")
	return cmd
}
