// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package sidebar renders the category navigation fragment. The walk
// follows the leaf-vs-branch rule: a category with children shows its
// children, and only childless categories list their own contents. One
// content query is issued per rendered node, fanned out concurrently.
package sidebar

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"lislab/internal/cache"
	"lislab/internal/models"
	"lislab/internal/store"
	"lislab/internal/taxonomy"
)

// nodeLimit caps how many contents one sidebar node lists.
const nodeLimit = 10

// fanOutLimit caps concurrent content queries during a render.
const fanOutLimit = 8

// ContentLister fetches the newest published contents of one category.
type ContentLister interface {
	ListForCategory(categorySlug string, limit int) ([]models.Content, error)
}

// StoreLister adapts the content store to the ContentLister interface.
type StoreLister struct {
	Contents *store.ContentStore
}

// ListForCategory returns the newest published contents under the slug.
func (l *StoreLister) ListForCategory(categorySlug string, limit int) ([]models.Content, error) {
	contents, _, err := l.Contents.List(store.ContentFilter{
		Category: categorySlug,
		PageSize: limit,
	})
	return contents, err
}

// node is one rendered entry of the tree.
type node struct {
	Category models.Category
	Children []*node
	Contents []contentLine

	// Failed marks a node whose content fetch failed; it renders a
	// placeholder instead of taking the rest of the sidebar down.
	Failed bool
}

// contentLine is one content link inside a node.
type contentLine struct {
	Title         string
	Slug          string
	Difficulty    models.Difficulty
	EstimatedTime int
	Active        bool
}

// Renderer builds the sidebar HTML fragment.
type Renderer struct {
	lister ContentLister
	cache  *cache.SidebarCache
	tmpl   *template.Template
}

// NewRenderer creates a sidebar renderer. The cache may be nil, in
// which case every call renders from scratch.
func NewRenderer(lister ContentLister, c *cache.SidebarCache) *Renderer {
	return &Renderer{
		lister: lister,
		cache:  c,
		tmpl:   template.Must(template.New("sidebar").Parse(sidebarTemplate)),
	}
}

// Render walks the category forest and produces the sidebar fragment.
// activeSlug marks the content entry of the currently open detail page.
// Only the unmarked variant is cached; marked renders are cheap relative
// to their frequency and keying the cache by slug would thrash it.
func (r *Renderer) Render(ctx context.Context, categories []models.Category, activeSlug string) ([]byte, error) {
	if activeSlug == "" && r.cache != nil {
		if html, ok := r.cache.Get(ctx); ok {
			return html, nil
		}
	}

	roots := r.buildTree(ctx, categories, activeSlug)

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, roots); err != nil {
		return nil, err
	}

	if activeSlug == "" && r.cache != nil {
		r.cache.Set(ctx, buf.Bytes())
	}
	return buf.Bytes(), nil
}

// buildTree derives the node forest and fans out one content fetch per
// leaf-rendering node. Fetch failures degrade the single node.
func (r *Renderer) buildTree(ctx context.Context, categories []models.Category, activeSlug string) []*node {
	var roots []*node
	var leaves []*node

	for _, top := range taxonomy.TopLevel(categories) {
		root := &node{Category: top}
		children := taxonomy.ChildrenOf(categories, top.ID)
		if len(children) == 0 {
			// Childless top-level categories list their own contents.
			leaves = append(leaves, root)
		} else {
			for _, child := range children {
				cn := &node{Category: child}
				root.Children = append(root.Children, cn)
				leaves = append(leaves, cn)
			}
		}
		roots = append(roots, root)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fanOutLimit)
	for _, leaf := range leaves {
		leaf := leaf
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				leaf.Failed = true
				return nil
			}
			contents, err := r.lister.ListForCategory(leaf.Category.Slug, nodeLimit)
			if err != nil {
				slog.Warn("sidebar branch fetch failed",
					"category", leaf.Category.Slug, "error", err)
				leaf.Failed = true
				return nil
			}
			for _, c := range contents {
				leaf.Contents = append(leaf.Contents, contentLine{
					Title:         c.Title,
					Slug:          c.Slug,
					Difficulty:    c.Difficulty,
					EstimatedTime: c.EstimatedTime,
					Active:        c.Slug == activeSlug,
				})
			}
			return nil
		})
	}
	g.Wait()

	return roots
}

const sidebarTemplate = `<nav class="sidebar">
<ul>
{{- range . }}
  <li class="category">
    <span class="category-name">{{ .Category.Name }}</span>
{{- if .Children }}
    <ul>
{{- range .Children }}
      <li class="subcategory">
        <a href="/contents?category={{ .Category.Slug }}">{{ .Category.Name }}</a>
        {{ template "contents" . }}
      </li>
{{- end }}
    </ul>
{{- else }}
    {{ template "contents" . }}
{{- end }}
  </li>
{{- end }}
</ul>
</nav>
{{- define "contents" }}
{{- if .Failed }}
    <p class="sidebar-empty">콘텐츠를 불러오지 못했습니다</p>
{{- else if .Contents }}
    <ul class="content-list">
{{- range .Contents }}
      <li{{ if .Active }} class="active"{{ end }}>
        <a href="/contents/{{ .Slug }}">{{ .Title }}</a>
        <span class="meta">{{ .Difficulty }} · {{ .EstimatedTime }}m</span>
      </li>
{{- end }}
    </ul>
{{- else }}
    <p class="sidebar-empty">콘텐츠가 없습니다</p>
{{- end }}
{{- end }}`
