package postprocess

import (
	"strings"
	"testing"

	"github.com/ternarybob/scribo/internal/common"
)

const badgeReadme = `# dashboard

> A web application for widget tracking

![TypeScript](https://img.shields.io/badge/TypeScript-007ACC?style=for-the-badge) ![React](https://img.shields.io/badge/React-20232A?style=for-the-badge) ![Build Status](https://img.shields.io/badge/build-passing-brightgreen)

### **TypeScript** • **React** • **Secure**

## Overview

This is the overview with installation, usage and contributing mentioned.

## Usage

Run it.

## Usage

Run it again.
`

func TestReviewRemovesBadgeRepetition(t *testing.T) {
	reviewer := NewReviewer(common.GetLogger())
	fixed, report := reviewer.Review(badgeReadme)

	if strings.Contains(fixed, "### **TypeScript** • **React**") {
		t.Error("tech repetition line not removed")
	}
	if strings.Contains(fixed, "img.shields.io/badge/TypeScript") == false {
		t.Error("badge line should survive")
	}

	found := false
	for _, fix := range report.Fixes {
		if strings.Contains(fix, "repetition") {
			found = true
		}
	}
	if !found {
		t.Errorf("repetition fix not reported: %v", report.Fixes)
	}
}

func TestReviewRemovesDuplicateSections(t *testing.T) {
	reviewer := NewReviewer(common.GetLogger())
	fixed, _ := reviewer.Review(badgeReadme)

	if strings.Count(fixed, "## Usage") != 1 {
		t.Errorf("duplicate Usage section not removed:\n%s", fixed)
	}
	if strings.Contains(fixed, "Run it again.") {
		t.Error("duplicate section body not removed")
	}
	if !strings.Contains(fixed, "Run it.") {
		t.Error("first section body must survive")
	}
}

func TestReviewIsIdempotent(t *testing.T) {
	reviewer := NewReviewer(common.GetLogger())

	messy := badgeReadme + "\n\n\n\n\n## Extra\nDirectly followed text\n-baditem\n"
	once, _ := reviewer.Review(messy)
	twice, _ := reviewer.Review(once)

	if once != twice {
		t.Errorf("review not idempotent:\nfirst:\n%q\nsecond:\n%q", once, twice)
	}
}

func TestReviewFixesFormatting(t *testing.T) {
	reviewer := NewReviewer(common.GetLogger())
	content := "# title\ntext\n## Section\n\n\n\n\nbody\n-item\n"
	fixed, _ := reviewer.Review(content)

	if strings.Contains(fixed, "\n\n\n\n") {
		t.Error("excessive newlines not collapsed")
	}
	if !strings.Contains(fixed, "text\n\n## Section") {
		t.Error("heading spacing not applied")
	}
	if !strings.Contains(fixed, "- item") {
		t.Error("list spacing not fixed")
	}
}

func TestReviewScoreBounds(t *testing.T) {
	reviewer := NewReviewer(common.GetLogger())
	_, report := reviewer.Review("tiny")
	if report.QualityScore < 0 || report.QualityScore > 100 {
		t.Errorf("score %v out of range", report.QualityScore)
	}
}

func TestQuickCleanRemovesHighlightLine(t *testing.T) {
	content := "![Go](https://img.shields.io/badge/Go-00ADD8)\n\n### **Go** • **React** highlights\n\nBody text."
	cleaned := QuickClean(content)

	if strings.Contains(cleaned, "highlights") {
		t.Error("repetitive highlight line not removed")
	}
	if !strings.Contains(cleaned, "Body text.") {
		t.Error("body content lost")
	}

	// Stable on already-clean content
	if again := QuickClean(cleaned); again != cleaned {
		t.Error("QuickClean not stable on clean content")
	}
}
