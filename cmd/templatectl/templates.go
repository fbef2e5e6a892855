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

package main

import (
	"fmt"
	"strings"

	"github.com/localnerve/contractsdb/internal/models"
	"github.com/localnerve/contractsdb/internal/services"
	"gopkg.in/yaml.v3"
)

type templateFile struct {
	Templates []templateSpec `yaml:"templates"`
}

type templateSpec struct {
	Name         string                 `yaml:"name"`
	Description  string                 `yaml:"description"`
	ContractType string                 `yaml:"contract_type"`
	Status       string                 `yaml:"status"`
	Content      string                 `yaml:"content"`
	Variables    map[string]interface{} `yaml:"variables"`
	Metadata     map[string]interface{} `yaml:"metadata"`
}

// parseTemplates decodes and validates a template catalog
func parseTemplates(raw []byte) ([]services.TemplateInput, error) {
	var file templateFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("no templates found")
	}

	seen := make(map[string]bool, len(file.Templates))
	inputs := make([]services.TemplateInput, 0, len(file.Templates))

	for i, spec := range file.Templates {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return nil, fmt.Errorf("template %d: name is required", i+1)
		}
		if strings.TrimSpace(spec.ContractType) == "" {
			return nil, fmt.Errorf("template %q: contract_type is required", name)
		}
		if seen[name] {
			return nil, fmt.Errorf("template %q: duplicate name", name)
		}
		seen[name] = true

		switch spec.Status {
		case "", models.TemplateDraft, models.TemplatePublished, models.TemplateArchived:
		default:
			return nil, fmt.Errorf("template %q: invalid status %q", name, spec.Status)
		}

		inputs = append(inputs, services.TemplateInput{
			Name:         name,
			Description:  spec.Description,
			Content:      spec.Content,
			ContractType: spec.ContractType,
			Variables:    models.JSONMap(spec.Variables),
			Metadata:     models.JSONMap(spec.Metadata),
			Status:       spec.Status,
			IsSystem:     true,
		})
	}

	return inputs, nil
}
