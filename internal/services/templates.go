// templates.go
//
// A contract lifecycle data service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of contractsdb.
// contractsdb is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// contractsdb is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with contractsdb.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"log"
	"sync"

	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/types"
	"gorm.io/gorm"
)

// TemplateCache is a read-through cache for templates by id
type TemplateCache interface {
	Get(ctx context.Context, id string) (*models.ContractTemplate, bool, error)
	Set(ctx context.Context, tmpl *models.ContractTemplate) error
	Invalidate(ctx context.Context, id string) error
}

var (
	templateCache   TemplateCache
	templateCacheMu sync.RWMutex
)

// SetTemplateCache installs the template cache. Passing nil disables caching.
func SetTemplateCache(c TemplateCache) {
	templateCacheMu.Lock()
	defer templateCacheMu.Unlock()
	templateCache = c
}

func getTemplateCache() TemplateCache {
	templateCacheMu.RLock()
	defer templateCacheMu.RUnlock()
	return templateCache
}

func invalidateTemplate(ctx context.Context, id string) {
	if cache := getTemplateCache(); cache != nil {
		if err := cache.Invalidate(ctx, id); err != nil {
			log.Printf("Template cache invalidate failed for %s: %v", id, err)
		}
	}
}

// TemplateInput is the body accepted when creating a template
type TemplateInput struct {
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Content      string         `json:"content"`
	ContractType string         `json:"contract_type"`
	Variables    models.JSONMap `json:"variables"`
	Metadata     models.JSONMap `json:"metadata"`
	Status       string         `json:"status"`
	IsSystem     bool           `json:"is_system"`
}

// TemplateUpdate carries the fields present in a template update
type TemplateUpdate struct {
	Name         *string        `json:"name"`
	Description  *string        `json:"description"`
	Content      *string        `json:"content"`
	ContractType *string        `json:"contract_type"`
	Variables    models.JSONMap `json:"variables"`
	Metadata     models.JSONMap `json:"metadata"`
	Status       *string        `json:"status"`
}

// TemplateFilter narrows ListTemplates. Status defaults to published; "all" disables it.
type TemplateFilter struct {
	UserID       string
	ContractType string
	Status       string
}

// CreateTemplate stores a template. System templates have no owner.
func CreateTemplate(ctx context.Context, db *gorm.DB, userID string, in TemplateInput) (*models.ContractTemplate, error) {
	if in.Status == "" {
		in.Status = models.TemplatePublished
	}

	tmpl := &models.ContractTemplate{
		Name:         in.Name,
		Description:  in.Description,
		Content:      in.Content,
		ContractType: in.ContractType,
		Variables:    in.Variables.OrEmpty(),
		Metadata:     in.Metadata.OrEmpty(),
		Status:       in.Status,
		IsSystem:     in.IsSystem,
	}
	if !in.IsSystem && userID != "" {
		owner := userID
		tmpl.UserID = &owner
	}

	if err := db.WithContext(ctx).Create(tmpl).Error; err != nil {
		return nil, err
	}

	return tmpl, nil
}

// GetTemplateByID returns a template, consulting the cache first when one is installed
func GetTemplateByID(ctx context.Context, db *gorm.DB, id string) (*models.ContractTemplate, error) {
	if !validID(id) {
		return nil, types.NotFound("Template not found")
	}

	cache := getTemplateCache()
	if cache != nil {
		tmpl, ok, err := cache.Get(ctx, id)
		if err != nil {
			log.Printf("Template cache get failed for %s: %v", id, err)
		} else if ok {
			return tmpl, nil
		}
	}

	var tmpl models.ContractTemplate
	if err := quiet(db.WithContext(ctx)).Where("id = ?", id).First(&tmpl).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, types.NotFound("Template not found")
		}
		return nil, err
	}

	if cache != nil {
		if err := cache.Set(ctx, &tmpl); err != nil {
			log.Printf("Template cache set failed for %s: %v", id, err)
		}
	}

	return &tmpl, nil
}

// UpdateTemplateByID overwrites the fields present in upd
func UpdateTemplateByID(ctx context.Context, db *gorm.DB, id string, upd TemplateUpdate) (*models.ContractTemplate, error) {
	if !validID(id) {
		return nil, types.NotFound("Template not found")
	}

	var tmpl models.ContractTemplate
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := quiet(tx).Where("id = ?", id).First(&tmpl).Error; err != nil {
			if isRecordNotFound(err) {
				return types.NotFound("Template not found")
			}
			return err
		}

		if upd.Name != nil {
			tmpl.Name = *upd.Name
		}
		if upd.Description != nil {
			tmpl.Description = *upd.Description
		}
		if upd.Content != nil {
			tmpl.Content = *upd.Content
		}
		if upd.ContractType != nil {
			tmpl.ContractType = *upd.ContractType
		}
		if upd.Variables != nil {
			tmpl.Variables = upd.Variables
		}
		if upd.Metadata != nil {
			tmpl.Metadata = upd.Metadata
		}
		if upd.Status != nil {
			tmpl.Status = *upd.Status
		}

		return tx.Save(&tmpl).Error
	})
	if err != nil {
		return nil, err
	}

	invalidateTemplate(ctx, id)
	return &tmpl, nil
}

// DeleteTemplateByID hard deletes a template. Contracts created from it keep their template_id.
func DeleteTemplateByID(ctx context.Context, db *gorm.DB, id string) error {
	if !validID(id) {
		return types.NotFound("Template not found")
	}

	result := db.WithContext(ctx).Where("id = ?", id).Delete(&models.ContractTemplate{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return types.NotFound("Template not found")
	}

	invalidateTemplate(ctx, id)
	return nil
}

// ListTemplates returns system templates plus, when filter.UserID is set, that user's own templates
func ListTemplates(ctx context.Context, db *gorm.DB, filter TemplateFilter) ([]models.ContractTemplate, error) {
	query := quiet(db.WithContext(ctx)).Model(&models.ContractTemplate{})

	if filter.UserID != "" {
		query = query.Where("is_system = ? OR user_id = ?", true, filter.UserID)
	} else {
		query = query.Where("is_system = ?", true)
	}

	switch filter.Status {
	case "":
		query = query.Where("status = ?", models.TemplatePublished)
	case "all":
	default:
		query = query.Where("status = ?", filter.Status)
	}

	if filter.ContractType != "" {
		query = query.Where("contract_type = ?", filter.ContractType)
	}

	templates := []models.ContractTemplate{}
	err := query.Order("created_at DESC").Find(&templates).Error
	return templates, err
}

// FindSystemTemplateByName returns the system template with the given name
func FindSystemTemplateByName(ctx context.Context, db *gorm.DB, name string) (*models.ContractTemplate, error) {
	var tmpl models.ContractTemplate
	err := quiet(db.WithContext(ctx)).
		Where("is_system = ? AND name = ?", true, name).
		First(&tmpl).Error
	if err != nil {
		if isRecordNotFound(err) {
			return nil, types.NotFound("Template not found")
		}
		return nil, err
	}
	return &tmpl, nil
}

// UpsertSystemTemplate creates or replaces the system template with in.Name.
// It reports whether a new template was created.
func UpsertSystemTemplate(ctx context.Context, db *gorm.DB, in TemplateInput) (*models.ContractTemplate, bool, error) {
	existing, err := FindSystemTemplateByName(ctx, db, in.Name)
	if err != nil && !types.IsNotFound(err) {
		return nil, false, err
	}

	in.IsSystem = true
	if existing == nil {
		tmpl, err := CreateTemplate(ctx, db, "", in)
		return tmpl, err == nil, err
	}

	status := in.Status
	if status == "" {
		status = models.TemplatePublished
	}
	tmpl, err := UpdateTemplateByID(ctx, db, existing.ID, TemplateUpdate{
		Description:  &in.Description,
		Content:      &in.Content,
		ContractType: &in.ContractType,
		Variables:    in.Variables.OrEmpty(),
		Metadata:     in.Metadata.OrEmpty(),
		Status:       &status,
	})
	return tmpl, false, err
}
