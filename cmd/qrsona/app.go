package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/diewo77/qrsona/i18n"
	"github.com/diewo77/qrsona/internal/apiclient"
	"github.com/diewo77/qrsona/internal/apperr"
	"github.com/diewo77/qrsona/internal/config"
	"github.com/diewo77/qrsona/internal/flow"
	"github.com/diewo77/qrsona/internal/policy"
	"github.com/diewo77/qrsona/internal/relation"
	"github.com/diewo77/qrsona/internal/session"
	"github.com/spf13/cobra"
)

// app carries what every command needs. It is filled by the root
// command's PersistentPreRunE.
type app struct {
	out    io.Writer
	errOut io.Writer

	// flags
	configPath string
	apiURL     string
	lang       string
	jsonOut    bool
	verbose    bool

	cfg    config.ClientConfig
	sess   *session.FileStore
	api    *apiclient.Client
	logger *slog.Logger
}

func newApp(out, errOut io.Writer) *app {
	return &app{out: out, errOut: errOut, lang: i18n.DefaultLang}
}

// setup applies flag > env > YAML > default and opens the session.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadClient(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.APIURL = a.apiURL
	}
	if flags.Changed("lang") {
		cfg.Lang = a.lang
	}
	if !i18n.Supported(cfg.Lang) {
		cfg.Lang = i18n.DefaultLang
	}
	a.cfg = cfg
	a.lang = cfg.Lang

	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))

	sess, err := session.OpenFile(cfg.SessionPath)
	if err != nil {
		return err
	}
	a.sess = sess
	a.api = apiclient.New(cfg.APIURL, sess,
		apiclient.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		apiclient.WithRateLimit(cfg.RateLimit, cfg.Burst),
		apiclient.WithLogger(a.logger),
	)
	return nil
}

func (a *app) resolver() *relation.Resolver {
	opts := []relation.ResolverOption{relation.WithLogger(a.logger)}
	if a.cfg.ConcurrentProbes {
		opts = append(opts, relation.WithConcurrentProbes())
	}
	return relation.NewResolver(a.api, opts...)
}

func (a *app) reconciler() *relation.Reconciler {
	return relation.NewReconciler(a.api, a.logger)
}

func (a *app) accessGate() *policy.AccessGate {
	return policy.NewAccessGate(a.api, a.resolver(), a.logger)
}

func (a *app) exchangeFlow() *flow.ExchangeFlow {
	return flow.NewExchangeFlow(a.api, a.sess, a.resolver(), a.reconciler())
}

func (a *app) profileFlow() *flow.ProfileFlow {
	return flow.NewProfileFlow(a.api, a.sess, a.accessGate(), a.resolver(), a.reconciler())
}

func (a *app) t(code string) string { return i18n.T(a.lang, code) }

func (a *app) println(args ...any) { fmt.Fprintln(a.out, args...) }

func (a *app) printf(format string, args ...any) { fmt.Fprintf(a.out, format, args...) }

// emit prints v as indented JSON when --json is set and reports whether
// it did.
func (a *app) emit(v any) (bool, error) {
	if !a.jsonOut {
		return false, nil
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return true, enc.Encode(v)
}

// describe renders err for humans in the configured language.
func (a *app) describe(err error) string {
	switch {
	case errors.Is(err, policy.ErrAccessDenied):
		return a.t("access_denied")
	case errors.Is(err, flow.ErrNoProfile):
		return a.t("profile_required")
	}

	var ae *apperr.Error
	if !errors.As(err, &ae) {
		return err.Error()
	}
	var msg string
	switch ae.Kind {
	case apperr.KindAuth:
		if ae.Status == 0 {
			msg = a.t("not_signed_in")
		} else if ae.Message != "" {
			msg = a.t(ae.Message)
		} else {
			msg = a.t("unauthorized")
		}
	case apperr.KindNotFound:
		msg = a.t("not_found")
	case apperr.KindConflict:
		msg = a.t("conflict")
	case apperr.KindValidation:
		msg = a.t("validation_error")
	default:
		switch {
		case ae.Status != 0 && ae.Message != "":
			msg = a.t(ae.Message)
		case ae.Err != nil:
			msg = a.t("network_error") + ": " + ae.Err.Error()
		default:
			msg = a.t("network_error")
		}
	}
	if len(ae.Fields) > 0 {
		keys := make([]string, 0, len(ae.Fields))
		for k := range ae.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var parts []string
		for _, k := range keys {
			parts = append(parts, k+": "+a.t(ae.Fields[k]))
		}
		msg += " (" + strings.Join(parts, ", ") + ")"
	}
	return msg
}
