package service

import (
	"sort"

	"github.com/draftdeck/design-service/entity"
	"github.com/google/uuid"
)

// UncategorizedGroup is the bucket for files uploaded without a
// category label.
const UncategorizedGroup = "Uncategorized"

// CategoryGroup is one room/area lineage, latest version first.
type CategoryGroup struct {
	Category string              `json:"category"`
	Files    []entity.DesignFile `json:"files"`
}

// GroupByCategory partitions a project's files by category and sorts
// each group by version number descending. Pure function; groups are
// ordered by category name for stable output. The version-descending
// sort is stable so equal numbers (impossible under the uniqueness
// constraint) cannot reorder arbitrarily.
func GroupByCategory(files []entity.DesignFile) []CategoryGroup {
	buckets := make(map[string][]entity.DesignFile)
	for _, f := range files {
		category := f.Category
		if category == "" {
			category = UncategorizedGroup
		}
		buckets[category] = append(buckets[category], f)
	}

	names := make([]string, 0, len(buckets))
	for name := range buckets {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]CategoryGroup, 0, len(names))
	for _, name := range names {
		group := buckets[name]
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].VersionNumber > group[j].VersionNumber
		})
		groups = append(groups, CategoryGroup{Category: name, Files: group})
	}
	return groups
}

// ListProjectFiles returns the grouped listing for a project, each
// file carrying its denormalized comments.
func (s *DesignService) ListProjectFiles(projectID uuid.UUID) ([]CategoryGroup, error) {
	files, err := s.files.FindByProjectID(projectID)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(files), nil
}
