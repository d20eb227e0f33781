// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/LuisFCaretta/site-receitas/internal/cache"
	"github.com/LuisFCaretta/site-receitas/internal/forms"
	"github.com/LuisFCaretta/site-receitas/internal/middleware"
	"github.com/LuisFCaretta/site-receitas/internal/models"
	"github.com/LuisFCaretta/site-receitas/internal/pagination"
	"github.com/LuisFCaretta/site-receitas/internal/render"
	"github.com/LuisFCaretta/site-receitas/internal/session"
	"github.com/LuisFCaretta/site-receitas/internal/slug"
	"github.com/LuisFCaretta/site-receitas/internal/storage"
	"github.com/LuisFCaretta/site-receitas/internal/store"
)

// msgCoverDisabled is shown when a cover is sent but object storage is not
// configured.
const msgCoverDisabled = "Cover uploads are not available."

// Dashboard groups the author's recipe management pages. Every handler
// expects RequireAuth and Require2FA to run first.
type Dashboard struct {
	renderer      *render.Renderer
	sessions      Sessions
	recipeStore   *store.RecipeStore
	categoryStore *store.CategoryStore
	userStore     *store.UserStore
	storageClient *storage.Client
	pageCache     *cache.PageCache
	listing       Listing
}

// NewDashboard creates a new Dashboard handler group. storageClient and
// pageCache may be nil.
func NewDashboard(renderer *render.Renderer, sessions Sessions, recipeStore *store.RecipeStore, categoryStore *store.CategoryStore, userStore *store.UserStore, storageClient *storage.Client, pageCache *cache.PageCache, listing Listing) *Dashboard {
	return &Dashboard{
		renderer:      renderer,
		sessions:      sessions,
		recipeStore:   recipeStore,
		categoryStore: categoryStore,
		userStore:     userStore,
		storageClient: storageClient,
		pageCache:     pageCache,
		listing:       listing,
	}
}

// Index lists the signed-in author's recipes, published or not.
func (d *Dashboard) Index(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	filter := store.RecipeFilter{AuthorID: &sess.UserID}
	total, err := d.recipeStore.Count(filter)
	if err != nil {
		d.renderer.ServerError(w, r, err)
		return
	}
	page, rng := pagination.Make(r, total, d.listing.PerPage, d.listing.Window)

	recipes, err := d.recipeStore.List(filter, page.PerPage, page.Offset)
	if err != nil {
		d.renderer.ServerError(w, r, err)
		return
	}

	user, err := d.userStore.FindByID(sess.UserID)
	if err != nil {
		d.renderer.ServerError(w, r, err)
		return
	}

	d.renderer.Page(w, r, http.StatusOK, "dashboard", &render.PageData{
		Title:      "Dashboard",
		Categories: navCategories(d.categoryStore),
		Data: map[string]any{
			"Recipes":     recipes,
			"Pagination":  rng,
			"TOTPEnabled": user != nil && user.Requires2FA(),
		},
	})
}

// NewRecipe renders an empty recipe editor.
func (d *Dashboard) NewRecipe(w http.ResponseWriter, r *http.Request) {
	form := forms.RecipeForm{
		PreparationTimeUnit: string(models.TimeUnitMinutes),
		ServingsUnit:        string(models.ServingsUnitServings),
	}
	d.renderForm(w, r, nil, form, forms.Errors{})
}

// CreateRecipe validates the editor and stores a new, unpublished recipe.
func (d *Dashboard) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	form := forms.ParseRecipeForm(r)
	errs, err := form.Validate(d.categoryStore)
	if err != nil {
		d.renderer.ServerError(w, r, err)
		return
	}
	cover, err := d.readCover(r, errs)
	if err != nil {
		d.renderer.ServerError(w, r, err)
		return
	}
	if !errs.Valid() {
		d.renderForm(w, r, nil, form, errs)
		return
	}

	recipe := &models.Recipe{
		Slug:     slug.Unique(form.Title),
		AuthorID: &sess.UserID,
	}
	form.Apply(recipe)

	if cover != nil {
		key, err := d.uploadCover(r.Context(), uuid.New(), cover)
		if err != nil {
			d.renderer.ServerError(w, r, err)
			return
		}
		recipe.CoverKey = &key
	}

	if err := d.recipeStore.Create(recipe); err != nil {
		if recipe.CoverKey != nil {
			d.deleteCover(r.Context(), *recipe.CoverKey)
		}
		d.renderer.ServerError(w, r, err)
		return
	}
	slog.Info("recipe created", "recipe_id", recipe.ID, "author_id", sess.UserID)
	d.pageCache.InvalidateAll(r.Context())

	flash(d.sessions, w, r, session.FlashSuccess, "Your recipe was saved. Publish it when it is ready.")
	http.Redirect(w, r, recipeEditPath(recipe.ID), http.StatusSeeOther)
}

// EditRecipe renders the editor pre-filled with one of the author's recipes.
func (d *Dashboard) EditRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, ok := d.ownedRecipe(w, r)
	if !ok {
		return
	}
	resolveCover(d.storageClient, recipe)
	d.renderForm(w, r, recipe, forms.RecipeFormFromModel(recipe), forms.Errors{})
}

// UpdateRecipe saves the editor. A saved recipe goes back to draft until
// it is published again.
func (d *Dashboard) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, ok := d.ownedRecipe(w, r)
	if !ok {
		return
	}

	form := forms.ParseRecipeForm(r)
	errs, err := form.Validate(d.categoryStore)
	if err != nil {
		d.renderer.ServerError(w, r, err)
		return
	}
	cover, err := d.readCover(r, errs)
	if err != nil {
		d.renderer.ServerError(w, r, err)
		return
	}
	if !errs.Valid() {
		resolveCover(d.storageClient, recipe)
		d.renderForm(w, r, recipe, form, errs)
		return
	}

	form.Apply(recipe)
	oldCover := recipe.CoverKey
	if cover != nil {
		key, err := d.uploadCover(r.Context(), recipe.ID, cover)
		if err != nil {
			d.renderer.ServerError(w, r, err)
			return
		}
		recipe.CoverKey = &key
	}

	if err := d.recipeStore.Update(recipe); err != nil {
		if cover != nil {
			d.deleteCover(r.Context(), *recipe.CoverKey)
		}
		d.renderer.ServerError(w, r, err)
		return
	}
	if cover != nil && oldCover != nil {
		d.deleteCover(r.Context(), *oldCover)
	}
	slog.Info("recipe updated", "recipe_id", recipe.ID)
	d.pageCache.InvalidateAll(r.Context())

	flash(d.sessions, w, r, session.FlashSuccess, "Your recipe was updated. It stays hidden until you publish it again.")
	http.Redirect(w, r, recipeEditPath(recipe.ID), http.StatusSeeOther)
}

// TogglePublish publishes a draft or takes a published recipe down.
func (d *Dashboard) TogglePublish(w http.ResponseWriter, r *http.Request) {
	recipe, ok := d.ownedRecipe(w, r)
	if !ok {
		return
	}

	published := !recipe.IsPublished
	if err := d.recipeStore.SetPublished(recipe.ID, published); err != nil {
		d.renderer.ServerError(w, r, err)
		return
	}
	slog.Info("recipe publish state changed", "recipe_id", recipe.ID, "published", published)
	d.pageCache.InvalidateAll(r.Context())

	msg := "Recipe unpublished."
	if published {
		msg = "Recipe published."
	}
	flash(d.sessions, w, r, session.FlashSuccess, msg)
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// DeleteRecipe removes one of the author's recipes and its cover.
func (d *Dashboard) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, ok := d.ownedRecipe(w, r)
	if !ok {
		return
	}

	if err := d.recipeStore.Delete(recipe.ID); err != nil {
		d.renderer.ServerError(w, r, err)
		return
	}
	if recipe.CoverKey != nil {
		d.deleteCover(r.Context(), *recipe.CoverKey)
	}
	slog.Info("recipe deleted", "recipe_id", recipe.ID)
	d.pageCache.InvalidateAll(r.Context())

	flash(d.sessions, w, r, session.FlashSuccess, "Recipe deleted.")
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// ownedRecipe loads the recipe named by the id URL parameter. It answers
// 404 itself when the id is malformed, the recipe does not exist, or it
// belongs to another author.
func (d *Dashboard) ownedRecipe(w http.ResponseWriter, r *http.Request) (*models.Recipe, bool) {
	id, ok := uuidParam(r, "id")
	if !ok {
		d.renderer.NotFound(w, r)
		return nil, false
	}

	recipe, err := d.recipeStore.FindByID(id)
	if err != nil {
		d.renderer.ServerError(w, r, err)
		return nil, false
	}
	sess := middleware.SessionFromCtx(r.Context())
	if recipe == nil || !recipe.OwnedBy(sess.UserID) {
		d.renderer.NotFound(w, r)
		return nil, false
	}
	return recipe, true
}

// coverFile is a validated cover upload held in memory.
type coverFile struct {
	data        []byte
	contentType string
	ext         string
}

// readCover reads the optional cover upload. Problems with the file are
// recorded on errs; the returned error is reserved for read failures.
func (d *Dashboard) readCover(r *http.Request, errs forms.Errors) (*coverFile, error) {
	file, header, err := r.FormFile("cover")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	defer file.Close()

	if d.storageClient == nil {
		errs.Add("cover", msgCoverDisabled)
		return nil, nil
	}
	if header.Size > forms.MaxCoverSize {
		errs.Add("cover", forms.MsgCoverTooLarge)
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(file, forms.MaxCoverSize+1))
	if err != nil {
		return nil, fmt.Errorf("read cover: %w", err)
	}
	contentType := http.DetectContentType(data)
	if msg := forms.CheckCover(int64(len(data)), contentType); msg != "" {
		errs.Add("cover", msg)
		return nil, nil
	}
	if msg := forms.CheckCoverImage(data); msg != "" {
		errs.Add("cover", msg)
		return nil, nil
	}

	return &coverFile{
		data:        data,
		contentType: contentType,
		ext:         forms.AllowedCoverTypes[contentType],
	}, nil
}

func (d *Dashboard) uploadCover(ctx context.Context, recipeID uuid.UUID, cover *coverFile) (string, error) {
	key := storage.CoverKey(recipeID, cover.ext, time.Now())
	if err := d.storageClient.Upload(ctx, key, cover.contentType, bytes.NewReader(cover.data), int64(len(cover.data))); err != nil {
		return "", err
	}
	return key, nil
}

// deleteCover removes a cover object. Failures leave an orphan object and
// are only logged.
func (d *Dashboard) deleteCover(ctx context.Context, key string) {
	if d.storageClient == nil {
		return
	}
	if err := d.storageClient.Delete(ctx, key); err != nil {
		slog.Warn("cover delete failed", "key", key, "error", err)
	}
}

// renderForm shows the recipe editor. recipe is nil for a new recipe.
func (d *Dashboard) renderForm(w http.ResponseWriter, r *http.Request, recipe *models.Recipe, form forms.RecipeForm, errs forms.Errors) {
	categories, err := d.categoryStore.List()
	if err != nil {
		d.renderer.ServerError(w, r, err)
		return
	}

	title, action := "New recipe", "/authors/dashboard/recipes"
	if recipe != nil {
		title, action = "Edit recipe", recipeEditPath(recipe.ID)
	}

	d.renderer.Page(w, r, http.StatusOK, "recipe_form", &render.PageData{
		Title:      title,
		Categories: navCategories(d.categoryStore),
		Data: map[string]any{
			"Recipe":         recipe,
			"Action":         action,
			"Fields":         render.Fields(forms.RecipeFields, form, errs, recipeOptions(categories)),
			"NonFieldErrors": errs.Get(forms.NonFieldErrors),
		},
	})
}

// recipeOptions returns the choices of the editor's select fields.
func recipeOptions(categories []models.Category) func(name string) []render.Option {
	return func(name string) []render.Option {
		var opts []render.Option
		switch name {
		case "preparation_time_unit":
			for _, u := range models.PreparationTimeUnits {
				opts = append(opts, render.Option{Value: string(u), Label: string(u)})
			}
		case "servings_unit":
			for _, u := range models.ServingsUnits {
				opts = append(opts, render.Option{Value: string(u), Label: string(u)})
			}
		case "category_id":
			opts = append(opts, render.Option{Value: "", Label: "---------"})
			for _, c := range categories {
				opts = append(opts, render.Option{Value: c.ID.String(), Label: c.Name})
			}
		}
		return opts
	}
}

func recipeEditPath(id uuid.UUID) string {
	return "/authors/dashboard/recipes/" + id.String()
}
