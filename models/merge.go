// ABOUTME: Sparse-patch helpers shared by the entity merge methods
// ABOUTME: An incoming zero value never clobbers a stored non-zero value
package models

import "time"

func patchString(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func patchTime(dst **time.Time, src *time.Time) {
	if src != nil {
		*dst = src
	}
}

func patchFloat(dst **float64, src *float64) {
	if src != nil {
		*dst = src
	}
}
