// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: Copyright (c) 2025 UnderNET

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"github.com/undernetirc/keyvault/internal/auth/oath"
	"github.com/undernetirc/keyvault/internal/auth/oath/totp"
	"github.com/undernetirc/keyvault/internal/config"
	"github.com/undernetirc/keyvault/internal/credential"
	"github.com/undernetirc/keyvault/internal/cron"
	"github.com/undernetirc/keyvault/internal/helper"
	"github.com/undernetirc/keyvault/internal/vault"
)

// errCodeRejected is returned by otp verify for a wrong code
var errCodeRejected = errors.New("code rejected")

type command func(ctx context.Context, args []string) error

type app struct {
	vault  *vault.Vault
	out    io.Writer
	errOut io.Writer
}

func newApp(v *vault.Vault, out, errOut io.Writer) *app {
	return &app{vault: v, out: out, errOut: errOut}
}

func (a *app) commands() map[string]command {
	return map[string]command{
		"list":         a.list,
		"search":       a.search,
		"add":          a.add,
		"update":       a.update,
		"delete":       a.delete,
		"check-schema": a.checkSchema,
		"otp":          a.otp,
	}
}

func (a *app) otpCommands() map[string]command {
	return map[string]command{
		"attach": a.otpAttach,
		"detach": a.otpDetach,
		"code":   a.otpCode,
		"watch":  a.otpWatch,
		"next":   a.otpNext,
		"verify": a.otpVerify,
		"uri":    a.otpURI,
		"qr":     a.otpQR,
		"secret": a.otpSecret,
	}
}

// offline reports whether args name a command that runs without the database
func (a *app) offline(args []string) bool {
	return len(args) >= 2 && args[0] == "otp" && args[1] == "secret"
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := a.commands()[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, args[0])
	}
	return cmd(ctx, args[1:])
}

func (a *app) otp(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: otp needs a subcommand", errUsage)
	}
	cmd, ok := a.otpCommands()[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown otp command %q", errUsage, args[0])
	}
	return cmd(ctx, args[1:])
}

func (a *app) flagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

// idFlag registers the mandatory --id flag
func idFlag(fs *pflag.FlagSet) *int32 {
	return fs.Int32("id", 0, "record ID")
}

func requireID(id int32) error {
	if id <= 0 {
		return fmt.Errorf("%w: --id is required", errUsage)
	}
	return nil
}

func (a *app) printRows(records []*vault.Record, limit int) error {
	rows, err := vault.Rows(records, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tLOCATION\tUSERNAME\tPASSWORD\tOTP\tUPDATED")
	for _, r := range rows {
		otp := "-"
		if r.HasOTP {
			otp = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Location, r.Username, r.Password, otp, r.LastUpdated.Format(time.DateTime))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if limit > 0 && len(records) > limit {
		fmt.Fprintf(a.out, "... %d more\n", len(records)-limit)
	}
	return nil
}

func (a *app) list(_ context.Context, args []string) error {
	fs := a.flagSet("list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.printRows(a.vault.Records(), 0)
}

func (a *app) search(_ context.Context, args []string) error {
	fs := a.flagSet("search")
	var q vault.Query
	fs.StringVar(&q.Location, "location", "", "location search term")
	fs.StringVar(&q.Username, "username", "", "username search term")
	fs.StringVar(&q.Password, "password", "", "password search term")
	limit := fs.Int("limit", config.VaultDisplayLimit.GetInt(), "maximum number of rows to show, 0 shows all")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.printRows(a.vault.Search(q), *limit)
}

func (a *app) add(ctx context.Context, args []string) error {
	fs := a.flagSet("add")
	location := fs.String("location", "", "location of the credential")
	username := fs.String("username", "", "username")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r, err := a.vault.Insert(ctx, *location, *username, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "added record %d\n", r.ID())
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	fs := a.flagSet("update")
	id := idFlag(fs)
	location := fs.String("location", "", "new location")
	username := fs.String("username", "", "new username")
	password := fs.String("password", "", "new password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	r, err := a.vault.Get(*id)
	if err != nil {
		return err
	}
	if fs.Changed("location") {
		r.SetLocation(*location)
	}
	if fs.Changed("username") {
		r.SetUsername(*username)
	}
	if fs.Changed("password") {
		r.SetPassword(*password)
	}

	changed := len(r.UnsavedFields())
	if err := a.vault.Save(ctx, r); err != nil {
		return err
	}
	if changed == 0 {
		fmt.Fprintf(a.out, "record %d unchanged\n", r.ID())
	} else {
		fmt.Fprintf(a.out, "updated record %d\n", r.ID())
	}
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	fs := a.flagSet("delete")
	id := idFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	if err := a.vault.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted record %d\n", *id)
	return nil
}

func (a *app) checkSchema(ctx context.Context, args []string) error {
	fs := a.flagSet("check-schema")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := a.vault.CheckSchema(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "schema ok")
	return nil
}

func (a *app) otpAttach(ctx context.Context, args []string) error {
	fs := a.flagSet("otp attach")
	id := idFlag(fs)
	var c credential.Credential
	fs.StringVar(&c.Type, "type", string(oath.TypeTOTP), "hotp or totp")
	fs.StringVar(&c.Name, "name", "", "account name shown by authenticators, defaults to the username")
	fs.StringVar(&c.Issuer, "issuer", "", "issuer shown by authenticators, defaults to otp.issuer")
	fs.StringVar(&c.Secret, "secret", "", "Base32 secret, generated when empty")
	fs.Uint64Var(&c.Counter, "counter", 0, "HOTP counter of the next code, defaults to 1")
	fs.Uint64Var(&c.Period, "period", 0, "TOTP period in seconds, defaults to otp.period")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}
	if c.Period == 0 && !c.IsHOTP() {
		if p := config.OTPPeriod.GetUint64(); p != totp.DefaultPeriod {
			c.Period = p
		}
	}

	r, err := a.vault.AttachOTP(ctx, *id, c)
	if err != nil {
		return err
	}
	attached, err := r.OTP()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "attached %s credential to record %d\nsecret: %s\n", attached.Type, r.ID(), attached.Secret)
	return nil
}

func (a *app) otpDetach(ctx context.Context, args []string) error {
	fs := a.flagSet("otp detach")
	id := idFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	if err := a.vault.DetachOTP(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "detached credential from record %d\n", *id)
	return nil
}

func (a *app) printPasscode(p vault.Passcode) {
	if p.Type == oath.TypeHOTP {
		fmt.Fprintf(a.out, "%s (counter %d)\n", p.Code, p.Counter)
		return
	}
	fmt.Fprintf(a.out, "%s (%ds left)\n", p.Code, p.Remaining)
}

func (a *app) otpCode(_ context.Context, args []string) error {
	fs := a.flagSet("otp code")
	id := idFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	p, err := a.vault.Passcode(*id)
	if err != nil {
		return err
	}
	a.printPasscode(p)
	return nil
}

func (a *app) otpWatch(ctx context.Context, args []string) error {
	fs := a.flagSet("otp watch")
	id := idFlag(fs)
	count := fs.Int("count", 0, "stop after this many refreshes, 0 runs until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	// fail fast on records without a usable credential
	p, err := a.vault.Passcode(*id)
	if err != nil {
		return err
	}
	a.printPasscode(p)
	if *count == 1 {
		return nil
	}

	scheduler, err := cron.NewScheduler(cron.Config{
		RefreshCron: config.WatchCron.GetString(),
		TimeZone:    config.WatchTimeZone.GetString(),
	}, slog.Default())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		refreshed atomic.Int64
		mu        sync.Mutex
		watchErr  error
	)
	refreshed.Store(1)
	err = scheduler.AddPasscodeRefreshJob(config.WatchCron.GetString(), *id, a.vault, func(p vault.Passcode, err error) {
		if err != nil {
			mu.Lock()
			watchErr = err
			mu.Unlock()
			cancel()
			return
		}
		a.printPasscode(p)
		if *count > 0 && refreshed.Add(1) >= int64(*count) {
			cancel()
		}
	})
	if err != nil {
		return err
	}

	scheduler.Start()
	slog.Debug("Watching passcode", "id", *id, "next_refresh", scheduler.NextRun())
	<-ctx.Done()
	scheduler.Stop()

	mu.Lock()
	defer mu.Unlock()
	return watchErr
}

func (a *app) otpNext(ctx context.Context, args []string) error {
	fs := a.flagSet("otp next")
	id := idFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	code, err := a.vault.NextHOTP(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, code)
	return nil
}

func (a *app) otpVerify(ctx context.Context, args []string) error {
	fs := a.flagSet("otp verify")
	id := idFlag(fs)
	code := fs.String("code", "", "code to check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	ok, err := a.vault.VerifyOTP(ctx, *id, *code)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "invalid")
		return errCodeRejected
	}
	fmt.Fprintln(a.out, "valid")
	return nil
}

func (a *app) otpURI(_ context.Context, args []string) error {
	fs := a.flagSet("otp uri")
	id := idFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	uri, err := a.vault.ProvisioningURI(*id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, uri)
	return nil
}

func (a *app) otpQR(_ context.Context, args []string) error {
	fs := a.flagSet("otp qr")
	id := idFlag(fs)
	png := fs.String("png", "", "write a PNG image to this file instead of printing to the terminal")
	size := fs.Int("size", 256, "PNG size in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireID(*id); err != nil {
		return err
	}

	uri, err := a.vault.ProvisioningURI(*id)
	if err != nil {
		return err
	}

	if *png == "" {
		text, err := helper.GenerateQRCodeText(uri)
		if err != nil {
			return err
		}
		fmt.Fprint(a.out, text)
		return nil
	}

	image, err := helper.GenerateQRCodePNG(uri, *size)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*png, image, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %s\n", *png)
	return nil
}

func (a *app) otpSecret(_ context.Context, args []string) error {
	fs := a.flagSet("otp secret")
	size := fs.Int("bytes", config.OTPSecretBytes.GetInt(), "number of random bytes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	secret, err := oath.GenerateSecret(*size)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, secret)
	return nil
}
