package generation

import (
	petname "github.com/dustinkirkland/golang-petname"
)

// randomSlug returns a two-word kebab-case project name such as "polite-walrus".
func randomSlug() string {
	return petname.Generate(2, "-")
}
