// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package functional holds browser tests that drive a live server. They are
// built only with the functional tag:
//
//	BROWSER_HEADLESS=1 go test -tags functional ./internal/functional/...
//
// Each test skips when PostgreSQL, Valkey or the browser is unavailable.
package functional
