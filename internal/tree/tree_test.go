package tree

import "testing"

// TestRenderListingNestedPaths verifies the connector layout for a mixed
// tree of files and directories.
func TestRenderListingNestedPaths(testingHandle *testing.T) {
	relativePaths := []string{
		"cmd/app/main.go",
		"internal/core/engine.go",
		"internal/core/engine_test.go",
		"README.md",
	}

	expectedListing := "Repository structure (project):\n" +
		"├── cmd\n" +
		"│   └── app\n" +
		"│       └── main.go\n" +
		"├── internal\n" +
		"│   └── core\n" +
		"│       ├── engine.go\n" +
		"│       └── engine_test.go\n" +
		"└── README.md\n"

	renderedListing := RenderListing("project", relativePaths)
	if renderedListing != expectedListing {
		testingHandle.Fatalf("listing mismatch:\ngot:\n%s\nwant:\n%s", renderedListing, expectedListing)
	}
}

// TestRenderListingEmpty verifies the placeholder line for an empty file set.
func TestRenderListingEmpty(testingHandle *testing.T) {
	expectedListing := "Repository structure (empty):\n(no files included)\n"
	if renderedListing := RenderListing("empty", nil); renderedListing != expectedListing {
		testingHandle.Fatalf("got %q want %q", renderedListing, expectedListing)
	}
}

// TestRenderListingSortOrder verifies case-insensitive ordering with exact
// name comparison breaking ties.
func TestRenderListingSortOrder(testingHandle *testing.T) {
	relativePaths := []string{"beta.go", "Alpha.go", "alpha.go", "ALPHA.md"}

	expectedListing := "Repository structure (sorted):\n" +
		"├── Alpha.go\n" +
		"├── alpha.go\n" +
		"├── ALPHA.md\n" +
		"└── beta.go\n"

	renderedListing := RenderListing("sorted", relativePaths)
	if renderedListing != expectedListing {
		testingHandle.Fatalf("listing mismatch:\ngot:\n%s\nwant:\n%s", renderedListing, expectedListing)
	}
}

// TestRenderListingDeterministic verifies identical output for identical
// inputs across repeated renders.
func TestRenderListingDeterministic(testingHandle *testing.T) {
	relativePaths := []string{"b/z.go", "b/a.go", "a.txt", "c/d/e.txt"}
	firstListing := RenderListing("repo", relativePaths)
	for renderIndex := 0; renderIndex < 5; renderIndex++ {
		if repeatedListing := RenderListing("repo", relativePaths); repeatedListing != firstListing {
			testingHandle.Fatalf("render %d differs:\n%s\nvs:\n%s", renderIndex, repeatedListing, firstListing)
		}
	}
}
