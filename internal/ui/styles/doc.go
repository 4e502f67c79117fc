// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the sleeptrack TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection. The Theme bundles the styles used by the night list and the
tracker screen.

# Color System (colors.go)

  - Purple: brand, header, selected row
  - Cyan: informational text, key hints
  - Emerald: good nights, freshly inserted rows
  - Amber: updated rows, nights in progress
  - Rose: bad nights, errors

Quality ratings map onto these colors through QualityColor.

# Theme (theme.go)

	theme := styles.NewTheme("auto")
	row := theme.Row.Render(text)
*/
package styles
