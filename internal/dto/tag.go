package dto

import (
	"time"

	"github.com/samber/lo"
	"github.com/yukikurage/project-management-api/internal/models"
)

type TagDTO struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
}

// TagDetailDTO is a tag with the tasks carrying it
type TagDetailDTO struct {
	TagDTO
	Tasks []TaskDTO `json:"tasks"`
}

func ToTagDTO(tag models.Tag) TagDTO {
	return TagDTO{
		ID:        tag.ID,
		Name:      tag.Name,
		Color:     tag.Color,
		CreatedAt: tag.CreatedAt,
	}
}

// ToTagDTOs never returns nil so empty lists encode as [].
func ToTagDTOs(tags []models.Tag) []TagDTO {
	return lo.Map(tags, func(t models.Tag, _ int) TagDTO {
		return ToTagDTO(t)
	})
}

func ToTagDetailDTO(tag models.Tag, tasks []models.Task) TagDetailDTO {
	return TagDetailDTO{
		TagDTO: ToTagDTO(tag),
		Tasks:  ToTaskDTOs(tasks),
	}
}
