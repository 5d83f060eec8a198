package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vuul/spackle-ssh/internal/color"
	"github.com/vuul/spackle-ssh/internal/session"
)

// applyAppearance validates the optional appearance flag values and applies
// them onto sess. Empty values leave the corresponding field untouched.
func applyAppearance(sess *session.Session, bg, fg, geometry, scrollback, fontsize, key string) error {
	if bg != "" {
		r, g, b, err := color.ParseHex(bg)
		if err != nil {
			return fmt.Errorf("invalid background color %q (want #rrggbb)", bg)
		}
		sess.Background = color.Hex(r, g, b)
	}
	if fg != "" {
		r, g, b, err := color.ParseHex(fg)
		if err != nil {
			return fmt.Errorf("invalid foreground color %q (want #rrggbb)", fg)
		}
		sess.Foreground = color.Hex(r, g, b)
	}
	if geometry != "" {
		if !session.ValidGeometry(geometry) {
			return fmt.Errorf("invalid geometry %q (valid: %s)",
				geometry, strings.Join(session.GeometryOptions, ", "))
		}
		sess.Geometry = geometry
	}
	if scrollback != "" {
		n, err := strconv.Atoi(scrollback)
		if err != nil || n < session.MinScrollback || n > session.MaxScrollback {
			return fmt.Errorf("invalid scrollback %q (range %d-%d)",
				scrollback, session.MinScrollback, session.MaxScrollback)
		}
		sess.Scrollback = strconv.Itoa(n)
	}
	if fontsize != "" {
		n, err := strconv.Atoi(fontsize)
		if err != nil || n < session.MinFontSize || n > session.MaxFontSize {
			return fmt.Errorf("invalid fontsize %q (range %d-%d)",
				fontsize, session.MinFontSize, session.MaxFontSize)
		}
		sess.FontSize = strconv.Itoa(n)
	}
	if key != "" {
		sess.KeyPath = key
	}
	return nil
}
