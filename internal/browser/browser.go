// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package browser starts a Chrome instance for UI tests through chromedp.
// BROWSER_HEADLESS=1 hides the window and BROWSER_EXEC_PATH picks the
// browser binary; without it chromedp searches the usual install paths.
package browser

import (
	"context"
	"os"
	"strings"

	"github.com/chromedp/chromedp"
)

// Options control how the browser process is launched.
type Options struct {
	Headless bool
	ExecPath string
	// Args are extra command-line flags, either "name" or "name=value",
	// with or without the leading dashes.
	Args []string
}

// OptionsFromEnv reads BROWSER_HEADLESS and BROWSER_EXEC_PATH.
func OptionsFromEnv(args ...string) Options {
	return Options{
		Headless: os.Getenv("BROWSER_HEADLESS") == "1",
		ExecPath: os.Getenv("BROWSER_EXEC_PATH"),
		Args:     args,
	}
}

// New starts a browser and returns a chromedp context bound to its first
// tab. The cancel function closes the tab and stops the process.
func New(parent context.Context, opts Options) (context.Context, context.CancelFunc) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocatorOptions(opts)...)
	ctx, cancelTab := chromedp.NewContext(allocCtx)
	return ctx, func() {
		cancelTab()
		cancelAlloc()
	}
}

// allocatorOptions starts from chromedp's defaults, which run headless, and
// turns the window back on unless opts asks for headless mode.
func allocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	out := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !opts.Headless {
		out = append(out, chromedp.Flag("headless", false))
	}
	if opts.ExecPath != "" {
		out = append(out, chromedp.ExecPath(opts.ExecPath))
	}
	for _, arg := range opts.Args {
		name, value := parseFlag(arg)
		if name == "" {
			continue
		}
		out = append(out, chromedp.Flag(name, value))
	}
	return out
}

// parseFlag splits "--name=value" into its parts. A bare flag maps to true.
func parseFlag(arg string) (string, any) {
	arg = strings.TrimLeft(strings.TrimSpace(arg), "-")
	name, value, ok := strings.Cut(arg, "=")
	if !ok {
		return name, true
	}
	return name, value
}
