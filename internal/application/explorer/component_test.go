package explorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMainComponent(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  string
		ok    bool
	}{
		{"prefers component over page", map[string]string{"page.tsx": "p", "components/Button.tsx": "b"}, "components/Button.tsx", true},
		{"skips app page and layout", map[string]string{"app/page.tsx": "", "app/layout.tsx": "", "app/Hero.tsx": ""}, "app/Hero.tsx", true},
		{"falls back to any non-route tsx", map[string]string{"app/page.tsx": "", "lib/Card.tsx": ""}, "lib/Card.tsx", true},
		{"falls back to page", map[string]string{"app/page.tsx": "", "tailwind.config.ts": ""}, "app/page.tsx", true},
		{"sorted order", map[string]string{"components/Zeta.tsx": "", "components/Alpha.tsx": ""}, "components/Alpha.tsx", true},
		{"nested components dir", map[string]string{"components/ui/button.tsx": "", "page.tsx": ""}, "components/ui/button.tsx", true},
		{"no tsx", map[string]string{"package.json": "{}", "app/globals.css": ""}, "", false},
		{"empty", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractMainComponent(tt.files)
			require.Equal(t, tt.ok, ok)
			if !ok {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, got.Path)
			assert.Equal(t, tt.files[tt.want], got.Code)
		})
	}
}

func TestExtractMainComponent_Name(t *testing.T) {
	got, ok := ExtractMainComponent(map[string]string{"components/PricingCard.tsx": "x"})
	require.True(t, ok)
	assert.Equal(t, "PricingCard", got.Name)
}

func TestFormatComponentForCopy(t *testing.T) {
	out := FormatComponentForCopy("import { x } from \"@/lib\";\nexport default function Foo(){return null}", "Foo")
	assert.NotContains(t, out, "@/lib")
	assert.True(t, strings.HasPrefix(out, "// Foo.tsx\nexport default function Foo(){return null}"), out)
}

func TestFormatComponentForCopy_MultilineAliasImport(t *testing.T) {
	code := strings.Join([]string{
		`"use client";`,
		`import {`,
		`  Card,`,
		`  CardHeader,`,
		`} from "@/components/ui/card";`,
		`import "@/styles/card.css";`,
		``,
		`const helper = 1;`,
		``,
		`export const Pricing = () => {`,
		`  return <Card />;`,
		`};`,
	}, "\n")
	out := FormatComponentForCopy(code, "Pricing")
	assert.NotContains(t, out, "@/")
	assert.NotContains(t, out, "CardHeader,")
	assert.True(t, strings.HasPrefix(out, "// Pricing.tsx\nexport const Pricing = () => {"), out)
}

func TestFormatComponentForCopy_NoDeclarationKeepsBody(t *testing.T) {
	out := FormatComponentForCopy("import { a } from '@/x';\nimport React from 'react';\nconst b = 2;", "B")
	assert.Equal(t, "// B.tsx\nimport React from 'react';\nconst b = 2;\n", out)
}
