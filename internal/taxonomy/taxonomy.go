// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package taxonomy derives the category tree from the flat category
// list served by the API. Categories reference their parent by ID, and
// a self-reference marks a top-level category; the wire format has no
// null parents. All functions are pure: they never mutate the input
// slice and hold no state, so callers may cache results as they see fit.
package taxonomy

import (
	"sort"

	"lislab/internal/models"
)

// TopLevel returns every category whose parent is itself, ordered by
// sort order ascending (name breaks ties, matching the API ordering).
func TopLevel(all []models.Category) []models.Category {
	var roots []models.Category
	for _, c := range all {
		if c.Parent == c.ID {
			roots = append(roots, c)
		}
	}
	sortCategories(roots)
	return roots
}

// ChildrenOf returns the direct children of parentID, ordered by sort
// order. The self-referential root is excluded; a category is never
// its own child.
func ChildrenOf(all []models.Category, parentID int64) []models.Category {
	var children []models.Category
	for _, c := range all {
		if c.Parent == parentID && c.ID != parentID {
			children = append(children, c)
		}
	}
	sortCategories(children)
	return children
}

// ResolveSlug translates a URL slug into the category ID. The second
// return value is false when no category carries the slug.
func ResolveSlug(all []models.Category, slug string) (int64, bool) {
	for _, c := range all {
		if c.Slug == slug {
			return c.ID, true
		}
	}
	return 0, false
}

// FindBySlug returns the category carrying the slug, or nil.
func FindBySlug(all []models.Category, slug string) *models.Category {
	for i := range all {
		if all[i].Slug == slug {
			return &all[i]
		}
	}
	return nil
}

// Descendants returns every category below parentID, breadth-first.
// The UI only renders two levels, but category data is externally
// managed, so the walk supports arbitrary depth and tracks visited IDs
// to terminate even if the data contains a parent cycle.
func Descendants(all []models.Category, parentID int64) []models.Category {
	visited := map[int64]bool{parentID: true}
	queue := []int64{parentID}
	var result []models.Category

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range ChildrenOf(all, id) {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			result = append(result, child)
			queue = append(queue, child.ID)
		}
	}
	return result
}

// sortCategories orders a slice by sort order, then name.
func sortCategories(cats []models.Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Order != cats[j].Order {
			return cats[i].Order < cats[j].Order
		}
		return cats[i].Name < cats[j].Name
	})
}
