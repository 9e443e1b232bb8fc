package main

import (
	"context"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gosoil/pkg/config"
	"github.com/itohio/gosoil/pkg/display"
	"github.com/itohio/gosoil/pkg/instrument"
	"github.com/itohio/gosoil/pkg/lcdview"
	"github.com/itohio/gosoil/pkg/sample"
)

// appState holds the application state.
type appState struct {
	cfg        *config.Config
	configPath string
	meter      *instrument.Instrument
	src        *source
	panel      *lcdview.Panel
	window     fyne.Window
}

// runGUI shows the meter in a window until it is closed.
func runGUI(ctx context.Context, state *appState, screen *display.Buffer) {
	application := app.NewWithID("com.itohio.gosoil")

	window := application.NewWindow("Soil Meter")
	state.window = window
	state.panel = lcdview.New(state.cfg.Simulator.TextSize)

	screen.OnChange(func(f display.Frame) {
		fyne.Do(func() {
			state.panel.SetFrame(f)
		})
	})
	state.panel.SetFrame(screen.Frame())

	pressBtn := widget.NewButtonWithIcon("Press", theme.MediaPlayIcon(), func() {
		log.Printf("Button: %s", state.meter.Press())
	})
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})
	if state.src.mock == nil {
		settingsBtn.Disable()
	}

	window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeySpace || ev.Name == fyne.KeyReturn {
			log.Printf("Button: %s", state.meter.Press())
		}
	})

	content := container.NewBorder(
		nil,
		container.NewBorder(nil, nil, settingsBtn, nil, pressBtn),
		nil,
		nil,
		state.panel,
	)
	window.SetContent(content)
	window.SetFixedSize(true)
	window.CenterOnScreen()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		if err := state.meter.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Meter stopped: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		fyne.Do(window.Close)
	}()

	window.ShowAndRun()
}

// showSettingsDialog lets the user move the simulated probe.
func showSettingsDialog(state *appState) {
	mock := state.src.mock
	cur := mock.Config()
	cal := state.cfg.Calibrations()

	ecLabel := widget.NewLabel(fmt.Sprintf("%.2f mS/cm", cur.Conductivity))
	ecSlider := widget.NewSlider(cal[sample.Conductivity].Min, cal[sample.Conductivity].Max)
	ecSlider.Step = 0.05
	ecSlider.SetValue(cur.Conductivity)
	ecSlider.OnChanged = func(v float64) {
		ecLabel.SetText(fmt.Sprintf("%.2f mS/cm", v))
		mock.Set(v, mock.Config().Temperature)
	}

	tempLabel := widget.NewLabel(fmt.Sprintf("%.1f °C", cur.Temperature))
	tempSlider := widget.NewSlider(cal[sample.Temperature].Min, cal[sample.Temperature].Max)
	tempSlider.Step = 0.1
	tempSlider.SetValue(cur.Temperature)
	tempSlider.OnChanged = func(v float64) {
		tempLabel.SetText(fmt.Sprintf("%.1f °C", v))
		mock.Set(mock.Config().Conductivity, v)
	}

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Conductivity", Widget: container.NewBorder(nil, nil, nil, ecLabel, ecSlider)},
			{Text: "Temperature", Widget: container.NewBorder(nil, nil, nil, tempLabel, tempSlider)},
		},
		SubmitText: "Save",
		OnSubmit: func() {
			state.cfg.Mock = mock.Config()
			if err := state.cfg.Save(state.configPath); err != nil {
				dialog.ShowError(err, state.window)
				return
			}
			log.Printf("Saved probe settings to %s", state.configPath)
		},
	}

	d := dialog.NewCustom("Simulated probe", "Close", form, state.window)
	d.Resize(fyne.NewSize(480, 220))
	d.Show()
}
