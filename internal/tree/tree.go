// Package tree renders the included file set as an indented directory
// listing with box-drawing connectors.
package tree

import (
	"sort"
	"strings"
)

const (
	listingHeaderPrefix = "Repository structure ("
	listingHeaderSuffix = "):"

	middleConnector = "├── "
	lastConnector   = "└── "
	middlePrefix    = "│   "
	lastPrefix      = "    "

	emptyListingLine = "(no files included)"
)

// listingNode is one directory or file in the listing. Files carry a nil
// children map.
type listingNode map[string]listingNode

// RenderListing produces the directory-structure block for the provided
// slash-separated relative paths. The listing is deterministic: entries are
// sorted case-insensitively at every level, with name order breaking ties.
func RenderListing(rootName string, relativePaths []string) string {
	var listingBuilder strings.Builder
	listingBuilder.WriteString(listingHeaderPrefix + rootName + listingHeaderSuffix + "\n")

	if len(relativePaths) == 0 {
		listingBuilder.WriteString(emptyListingLine + "\n")
		return listingBuilder.String()
	}

	rootNode := buildListingTree(relativePaths)
	writeListingLevel(&listingBuilder, rootNode, "")
	return listingBuilder.String()
}

// buildListingTree folds the path list into nested listing nodes.
func buildListingTree(relativePaths []string) listingNode {
	rootNode := listingNode{}
	for _, relativePath := range relativePaths {
		pathSegments := strings.Split(relativePath, "/")
		currentLevel := rootNode
		for segmentIndex, segmentName := range pathSegments {
			if segmentIndex == len(pathSegments)-1 {
				currentLevel[segmentName] = nil
				continue
			}
			childLevel, exists := currentLevel[segmentName]
			if !exists || childLevel == nil {
				childLevel = listingNode{}
				currentLevel[segmentName] = childLevel
			}
			currentLevel = childLevel
		}
	}
	return rootNode
}

// writeListingLevel renders one directory level and recurses into children.
func writeListingLevel(listingBuilder *strings.Builder, currentLevel listingNode, linePrefix string) {
	entryNames := make([]string, 0, len(currentLevel))
	for entryName := range currentLevel {
		entryNames = append(entryNames, entryName)
	}
	sort.Slice(entryNames, func(firstIndex, secondIndex int) bool {
		firstLower := strings.ToLower(entryNames[firstIndex])
		secondLower := strings.ToLower(entryNames[secondIndex])
		if firstLower != secondLower {
			return firstLower < secondLower
		}
		return entryNames[firstIndex] < entryNames[secondIndex]
	})

	for entryIndex, entryName := range entryNames {
		isLastEntry := entryIndex == len(entryNames)-1
		connector := middleConnector
		childPrefix := linePrefix + middlePrefix
		if isLastEntry {
			connector = lastConnector
			childPrefix = linePrefix + lastPrefix
		}
		listingBuilder.WriteString(linePrefix + connector + entryName + "\n")
		if childLevel := currentLevel[entryName]; childLevel != nil {
			writeListingLevel(listingBuilder, childLevel, childPrefix)
		}
	}
}
