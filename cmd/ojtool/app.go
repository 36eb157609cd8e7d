package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"ojtool/internal/credstore"
	"ojtool/internal/judge"
	"ojtool/internal/transport"
)

// app wires the pieces every subcommand needs: options, logger, the judge
// client and the credential store.
type app struct {
	log    *slog.Logger
	opts   Options
	client judge.Client
	store  *credstore.Store
}

func loadApp() (*app, error) {
	log := setupLog()

	opts, err := loadOptions()
	if err != nil {
		return nil, err
	}
	secrets, err := loadSecrets()
	if err != nil {
		return nil, err
	}
	keys, err := credstore.DeriveKeysBase64(secrets.CredSecret, secrets.CredSalt)
	if err != nil {
		return nil, fmt.Errorf("derive credstore keys: %w", err)
	}

	httpClient, err := transport.New(opts.HTTP)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	client, err := judge.Build(opts.Judge, httpClient)
	if err != nil {
		return nil, err
	}
	store, err := credstore.New(log, opts.DB, keys)
	if err != nil {
		return nil, err
	}
	return &app{log: log, opts: opts, client: client, store: store}, nil
}

func (a *app) Close() {
	a.store.Close()
}

func loadOptions() (Options, error) {
	path := optionsPath
	if path == "" {
		var err error
		path, err = defaultPath("options.toml")
		if err != nil {
			return Options{}, err
		}
	}
	var opts Options
	raw, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Options{}, fmt.Errorf("read options: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(raw, &opts); err != nil {
			return Options{}, fmt.Errorf("unmarshal options: %w", err)
		}
	}
	if err := opts.FillDefaults(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

func loadSecrets() (Secrets, error) {
	path := secretsPath
	if path == "" {
		var err error
		path, err = defaultPath("secrets.toml")
		if err != nil {
			return Secrets{}, err
		}
	}
	var secrets Secrets
	raw, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Secrets{}, fmt.Errorf("read secrets: %w", err)
	}
	if err == nil {
		if err := toml.Unmarshal(raw, &secrets); err != nil {
			return Secrets{}, fmt.Errorf("unmarshal secrets: %w", err)
		}
	}
	changed, err := secrets.GenerateMissing()
	if err != nil {
		return Secrets{}, err
	}
	if changed {
		newRaw, err := toml.Marshal(&secrets)
		if err != nil {
			return Secrets{}, fmt.Errorf("marshal secrets: %w", err)
		}
		if err := os.WriteFile(path, newRaw, 0600); err != nil {
			return Secrets{}, fmt.Errorf("write secrets: %w", err)
		}
	}
	return secrets, nil
}

// restoreAuth injects stored credentials into the session, if any. A
// corrupt blob is surfaced; a missing one is not an error.
func (a *app) restoreAuth(ctx context.Context) error {
	blob, ok, err := a.store.Get(ctx, a.client.Name())
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	auth, err := judge.DeserializeAuth(blob)
	if err != nil {
		return err
	}
	if err := a.client.RestoreAuth(&auth); err != nil {
		return err
	}
	a.log.Debug("restored cached auth", slog.String("user", auth.Username))
	return nil
}

// saveAuth persists the session's current credentials.
func (a *app) saveAuth(ctx context.Context) error {
	auth, err := a.client.ExportAuth()
	if err != nil {
		return err
	}
	if auth == nil {
		return fmt.Errorf("no credentials to save")
	}
	blob, err := judge.SerializeAuth(*auth)
	if err != nil {
		return err
	}
	return a.store.Put(ctx, a.client.Name(), blob)
}

// routeTask routes a URL and requires it to name a task.
func (a *app) routeTask(rawURL string) (judge.Resource, error) {
	res, err := a.client.Route(rawURL)
	if err != nil {
		return nil, err
	}
	if res.Kind() != judge.KindTask {
		return nil, fmt.Errorf("%s names a %v, expected a task", rawURL, res.Kind())
	}
	return res, nil
}
