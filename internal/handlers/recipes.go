// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/LuisFCaretta/site-receitas/internal/cache"
	"github.com/LuisFCaretta/site-receitas/internal/markdown"
	"github.com/LuisFCaretta/site-receitas/internal/metrics"
	"github.com/LuisFCaretta/site-receitas/internal/middleware"
	"github.com/LuisFCaretta/site-receitas/internal/pagination"
	"github.com/LuisFCaretta/site-receitas/internal/render"
	"github.com/LuisFCaretta/site-receitas/internal/storage"
	"github.com/LuisFCaretta/site-receitas/internal/store"
)

// Recipes groups the public recipe pages. Home, category and detail pages
// served to anonymous visitors go through the L2 Valkey page cache; search
// results are always rendered fresh.
type Recipes struct {
	renderer      *render.Renderer
	recipeStore   *store.RecipeStore
	categoryStore *store.CategoryStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
	listing       Listing
}

// NewRecipes creates a new Recipes handler group. storageClient and
// pageCache may be nil.
func NewRecipes(renderer *render.Renderer, recipeStore *store.RecipeStore, categoryStore *store.CategoryStore, storageClient *storage.Client, pageCache *cache.PageCache, listing Listing) *Recipes {
	return &Recipes{
		renderer:      renderer,
		recipeStore:   recipeStore,
		categoryStore: categoryStore,
		storageClient: storageClient,
		pageCache:     pageCache,
		listing:       listing,
	}
}

// Home lists every published recipe, newest first.
func (h *Recipes) Home(w http.ResponseWriter, r *http.Request) {
	requested := pagination.PageFromRequest(r)
	key := cache.HomeKey(requested)
	if h.serveCached(w, r, key) {
		return
	}

	filter := store.RecipeFilter{PublishedOnly: true}
	data, page, err := h.list(r, filter)
	if err != nil {
		h.renderer.ServerError(w, r, err)
		return
	}
	if page.Number != requested {
		key = ""
	}

	h.respond(w, r, key, "home", &render.PageData{
		Title: "Home",
		Data:  data,
	})
}

// Category lists the published recipes of one category. A malformed id,
// an unknown category and a category without published recipes are all
// answered with 404.
func (h *Recipes) Category(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	requested := pagination.PageFromRequest(r)
	key := cache.CategoryKey(id, requested)
	if h.serveCached(w, r, key) {
		return
	}

	category, err := h.categoryStore.FindByID(id)
	if err != nil {
		h.renderer.ServerError(w, r, err)
		return
	}
	if category == nil {
		h.renderer.NotFound(w, r)
		return
	}

	filter := store.RecipeFilter{PublishedOnly: true, CategoryID: &id}
	data, page, err := h.list(r, filter)
	if err != nil {
		h.renderer.ServerError(w, r, err)
		return
	}
	if page.Total == 0 {
		h.renderer.NotFound(w, r)
		return
	}
	if page.Number != requested {
		key = ""
	}

	data["Heading"] = category.Name
	h.respond(w, r, key, "home", &render.PageData{
		Title: category.Name + " - Category",
		Data:  data,
	})
}

// Recipe shows one published recipe with its preparation steps.
func (h *Recipes) Recipe(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		h.renderer.NotFound(w, r)
		return
	}

	key := cache.RecipeKey(id)
	if h.serveCached(w, r, key) {
		return
	}

	recipe, err := h.recipeStore.FindPublishedByID(id)
	if err != nil {
		h.renderer.ServerError(w, r, err)
		return
	}
	if recipe == nil {
		h.renderer.NotFound(w, r)
		return
	}
	resolveCover(h.storageClient, recipe)

	steps, err := markdown.Steps(recipe.PreparationSteps, recipe.PreparationStepsIsHTML)
	if err != nil {
		h.renderer.ServerError(w, r, fmt.Errorf("render steps of %s: %w", id, err))
		return
	}

	h.respond(w, r, key, "recipe", &render.PageData{
		Title: recipe.Title,
		Data: map[string]any{
			"Recipe": recipe,
			"Steps":  steps,
		},
	})
}

// Search lists published recipes whose title or description contains the
// q parameter. An empty term is a 404.
func (h *Recipes) Search(w http.ResponseWriter, r *http.Request) {
	term := strings.TrimSpace(r.URL.Query().Get("q"))
	if term == "" {
		h.renderer.NotFound(w, r)
		return
	}
	metrics.Search()

	filter := store.RecipeFilter{PublishedOnly: true, Search: term}
	data, _, err := h.list(r, filter)
	if err != nil {
		h.renderer.ServerError(w, r, err)
		return
	}
	rng := data["Pagination"].(pagination.Range)
	data["Pagination"] = rng.WithQuery(url.Values{"q": {term}})

	h.respond(w, r, "", "search", &render.PageData{
		Title:  `Search for "` + term + `"`,
		Search: term,
		Data:   data,
	})
}

// NotFound renders the 404 page for unmatched routes.
func (h *Recipes) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.NotFound(w, r)
}

// list loads the requested page of recipes matching filter.
func (h *Recipes) list(r *http.Request, filter store.RecipeFilter) (map[string]any, pagination.Page, error) {
	total, err := h.recipeStore.Count(filter)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	page, rng := pagination.Make(r, total, h.listing.PerPage, h.listing.Window)

	items, err := h.recipeStore.List(filter, page.PerPage, page.Offset)
	if err != nil {
		return nil, pagination.Page{}, err
	}
	resolveCovers(h.storageClient, items)

	return map[string]any{
		"Recipes":    items,
		"Pagination": rng,
	}, page, nil
}

// cacheable reports whether the response to r may be served from or
// stored in the page cache: only anonymous visitors without pending flash
// messages see the shared version of a page.
func cacheable(r *http.Request) bool {
	sess := middleware.SessionFromCtx(r.Context())
	return sess == nil || (!sess.IsAuthenticated() && len(sess.Flashes) == 0)
}

// serveCached writes the cached page for key when there is one.
func (h *Recipes) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if h.pageCache == nil || !cacheable(r) {
		return false
	}
	html, ok := h.pageCache.Get(r.Context(), key)
	metrics.PageCache(ok)
	if !ok {
		return false
	}
	render.Write(w, http.StatusOK, html)
	return true
}

// respond renders a page and stores it under key when the request is
// cacheable. An empty key disables caching.
func (h *Recipes) respond(w http.ResponseWriter, r *http.Request, key, name string, data *render.PageData) {
	cacheIt := key != "" && cacheable(r)

	data.Categories = navCategories(h.categoryStore)
	h.renderer.Prepare(r, data)
	html, err := h.renderer.Bytes(name, data)
	if err != nil {
		h.renderer.ServerError(w, r, err)
		return
	}

	if cacheIt && len(data.Flashes) == 0 {
		h.pageCache.Set(r.Context(), key, html)
		slog.Debug("page cached", "key", key)
	}
	render.Write(w, http.StatusOK, html)
}
