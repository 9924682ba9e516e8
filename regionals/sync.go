package regionals

import (
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"artists/config"
	"artists/db"
	"artists/models"
	"artists/notifications"
)

type SyncResult struct {
	Inseridos  int `json:"inseridos"`
	Alterados  int `json:"alterados"`
	Inativados int `json:"inativados"`
}

// Sync reconciles the local regional table against the external list in one
// transaction: unknown entries are inserted, renamed ones superseded, and
// active rows missing from the endpoint deactivated.
func Sync() (SyncResult, error) {
	externals, err := Fetch()
	if err != nil {
		return SyncResult{}, err
	}
	var result SyncResult
	err = db.Transaction(func(tx *gorm.DB, events *notifications.Queue) error {
		result, err = apply(tx, externals)
		if err != nil {
			return err
		}
		events.Publish(notifications.Notification{
			Type:    notifications.TypeRegionalsSynced,
			Entity:  "regional",
			Title:   "Regionais sincronizadas",
			Message: "Sincronização com o endpoint externo concluída",
			Meta: map[string]any{
				"inseridos":  result.Inseridos,
				"alterados":  result.Alterados,
				"inativados": result.Inativados,
			},
		})
		return nil
	})
	return result, err
}

func apply(tx *gorm.DB, externals []ExternalRegional) (SyncResult, error) {
	var result SyncResult

	active := []models.Regional{}
	if err := tx.Find(&active, "active = ?", true).Error; err != nil {
		return result, err
	}
	activeByExternalID := map[int]models.Regional{}
	for _, r := range active {
		if _, seen := activeByExternalID[r.ExternalID]; !seen {
			activeByExternalID[r.ExternalID] = r
		}
	}

	seenIDs := map[int]bool{}
	toInsert := []models.Regional{}
	for _, ext := range externals {
		if ext.ID == nil {
			continue
		}
		externalID := *ext.ID
		newName := strings.TrimSpace(ext.Nome)
		seenIDs[externalID] = true

		current, ok := activeByExternalID[externalID]
		if !ok {
			toInsert = append(toInsert, models.Regional{ExternalID: externalID, Name: newName, Active: true})
			result.Inseridos++
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(current.Name), newName) {
			err := tx.Model(&models.Regional{}).
				Where("external_id = ? AND active = ?", externalID, true).
				Update("active", false).Error
			if err != nil {
				return result, err
			}
			toInsert = append(toInsert, models.Regional{ExternalID: externalID, Name: newName, Active: true})
			result.Alterados++
		}
	}

	if len(toInsert) > 0 {
		if err := tx.Create(&toInsert).Error; err != nil {
			return result, err
		}
	}

	missing := []int{}
	for _, r := range active {
		if !seenIDs[r.ExternalID] {
			missing = append(missing, r.ExternalID)
		}
	}
	if len(missing) > 0 {
		res := tx.Model(&models.Regional{}).
			Where("external_id IN ? AND active = ?", missing, true).
			Update("active", false)
		if res.Error != nil {
			return result, res.Error
		}
		result.Inativados = int(res.RowsAffected)
	}
	return result, nil
}

// ListActive returns the currently active regionals.
func ListActive(tx *gorm.DB) ([]models.Regional, error) {
	regionals := []models.Regional{}
	err := tx.Order("external_id ASC").Find(&regionals, "active = ?", true).Error
	return regionals, err
}

// StartSyncLoop periodically reconciles in the background. Call as a goroutine.
func StartSyncLoop() {
	if config.REGIONAIS_SYNC_MINUTES <= 0 {
		return
	}
	interval := time.Duration(config.REGIONAIS_SYNC_MINUTES) * time.Minute
	for {
		time.Sleep(interval)
		if _, err := Sync(); err != nil {
			log.Printf("regionais sync: %v", err)
		}
	}
}
