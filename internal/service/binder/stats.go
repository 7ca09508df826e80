package binder

import (
	models "inkwell/internal/domain/models/binder"
	"inkwell/internal/utils"
)

// Stats counts items and words in tree order.
func Stats(tree models.Tree) models.ProjectStats {
	stats := models.ProjectStats{PerDoc: []models.DocumentStats{}}
	Walk(tree, func(it *models.Item, _ int) bool {
		switch {
		case it.IsContainer():
			stats.Containers++
		case it.IsDocument():
			words := utils.CountWords(it.Document.Body)
			stats.Documents++
			stats.Words += words
			stats.PerDoc = append(stats.PerDoc, models.DocumentStats{
				ID:    it.ID,
				Title: it.Title,
				Words: words,
			})
		}
		return true
	})
	return stats
}
