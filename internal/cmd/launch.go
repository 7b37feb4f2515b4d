package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/runger/vaultpick/internal/launcher"
	vplog "github.com/runger/vaultpick/internal/log"
)

func runLaunch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ui, err := a.interactive()
	if err != nil {
		return err
	}
	clip, err := a.clipboardSetter()
	if err != nil {
		return err
	}

	vplog.LogRunStart(a.logger, vplog.RunInfo{
		Version:       Version,
		ConfigPath:    a.cfgPath,
		PickerBackend: a.cfg.Picker.Backend,
		Sources:       a.cfg.Session.Sources,
		Vault:         a.cfg.Vault.Name,
		PID:           os.Getpid(),
	})

	l := &launcher.Launcher{
		Sessions:    a.sessionChain(),
		NewClient:   a.vaultClient,
		Picker:      ui,
		Clipboard:   clip,
		Lock:        a.lock,
		ItemPrompt:  a.cfg.Picker.ItemPrompt,
		FieldPrompt: a.cfg.Picker.FieldPrompt,
		Validate:    a.cfg.Session.Validate,
		Logger:      a.logger,

		SessionPrefix: a.cfg.Session.Prefix,
	}

	res, err := l.Run(ctx)
	// A signal kills the picker, which then looks like an ordinary failure.
	if err != nil && ctx.Err() != nil {
		err = fmt.Errorf("%w: %v", ctx.Err(), err)
	}
	launcher.Finish(a.logger, res, err)
	return err
}
