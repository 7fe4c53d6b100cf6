package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yboost/yboost/internal/broadcast"
	"github.com/yboost/yboost/pkg/booster"
	"github.com/yboost/yboost/pkg/catalog"
	"github.com/yboost/yboost/pkg/database/repository"
)

// stressTestCount matches the original stress route: 100 uniform draws.
const stressTestCount = 100

type awardPayload struct {
	SkinID   int    `json:"skinId"`
	SkinName string `json:"skinName"`
	Rarity   string `json:"rarity"`
}

type addSkinsRequest struct {
	Skins []awardPayload `json:"skins"`
}

type ownedSkinPayload struct {
	SkinID     int       `json:"skinId"`
	SkinName   string    `json:"skinName"`
	Rarity     string    `json:"rarity"`
	ObtainedAt time.Time `json:"obtainedAt"`
}

// handleCatalog serves the full skin catalog as an id -> skin map.
func (s *Server) handleCatalog(c *gin.Context) {
	cat := s.Catalog()
	out := make(map[string]catalog.Skin, cat.Len())
	for id, skin := range cat.Skins() {
		out[strconv.Itoa(id)] = skin
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleListSkins(c *gin.Context) {
	userID, pseudo := currentUser(c)

	records, err := s.collection.ListByUser(userID)
	s.markStore(err)
	if err != nil {
		// Reads degrade to an empty result; the flag tells the caller the
		// store was unreachable rather than the collection being empty.
		s.log.Error("collection list failed", err, map[string]interface{}{"pseudo": pseudo})
		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"skins":          []ownedSkinPayload{},
			"storeAvailable": false,
		})
		return
	}

	skins := make([]ownedSkinPayload, 0, len(records))
	for _, r := range records {
		skins = append(skins, ownedSkinPayload{
			SkinID:     r.SkinID,
			SkinName:   r.SkinName,
			Rarity:     r.Rarity,
			ObtainedAt: r.CreatedAt,
		})
	}
	s.log.Debug("collection listed", map[string]interface{}{"pseudo": pseudo, "count": len(skins)})
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"skins":          skins,
		"storeAvailable": true,
	})
}

func (s *Server) handleAddSkins(c *gin.Context) {
	userID, pseudo := currentUser(c)

	var req addSkinsRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Skins) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	awards := make([]repository.Award, 0, len(req.Skins))
	for _, a := range req.Skins {
		if a.SkinName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
			return
		}
		rarity := a.Rarity
		if rarity == "" {
			rarity = string(catalog.RarityStandard)
		}
		awards = append(awards, repository.Award{SkinID: a.SkinID, SkinName: a.SkinName, Rarity: rarity})
	}

	err := s.collection.AddMany(userID, awards)
	s.markStore(err)
	if err != nil {
		s.log.Error("collection write failed", err, map[string]interface{}{"pseudo": pseudo, "count": len(awards)})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save skins: " + err.Error()})
		return
	}

	s.log.Info("skins added", map[string]interface{}{"pseudo": pseudo, "count": len(awards)})
	s.hub.Publish(userID.String(), broadcast.Event{Type: broadcast.EventCollectionChanged, Count: len(awards)})
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) handleRemoveSkin(c *gin.Context) {
	userID, pseudo := currentUser(c)

	skinID, err := strconv.Atoi(c.Param("skinId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skin id"})
		return
	}

	// Removal is per skin id: a stacked duplicate disappears as one unit.
	removed, err := s.collection.Remove(userID, skinID)
	s.markStore(err)
	if err != nil {
		s.log.Error("collection remove failed", err, map[string]interface{}{"pseudo": pseudo, "skin_id": skinID})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove skin: " + err.Error()})
		return
	}

	s.log.Info("skin removed", map[string]interface{}{"pseudo": pseudo, "skin_id": skinID, "copies": removed})
	if removed > 0 {
		s.hub.Publish(userID.String(), broadcast.Event{Type: broadcast.EventCollectionChanged, Count: int(removed)})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "removed": removed})
}

// handleStressTest awards a burst of uniform-random skins, bypassing the
// reveal flow. Kept from the original for load-poking a deployment.
func (s *Server) handleStressTest(c *gin.Context) {
	userID, pseudo := currentUser(c)

	cat := s.Catalog()
	if cat.Len() == 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "catalog unavailable"})
		return
	}
	gen := booster.NewGenerator(cat, nil)
	awards := make([]repository.Award, 0, stressTestCount)
	for _, skin := range gen.GenerateUniform(stressTestCount) {
		awards = append(awards, repository.Award{
			SkinID:   skin.ID,
			SkinName: skin.Name,
			Rarity:   string(skin.Rarity),
		})
	}

	err := s.collection.AddMany(userID, awards)
	s.markStore(err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save skins: " + err.Error()})
		return
	}

	s.log.Warn("stress test run", map[string]interface{}{"pseudo": pseudo, "count": len(awards)})
	s.hub.Publish(userID.String(), broadcast.Event{Type: broadcast.EventCollectionChanged, Count: len(awards)})
	c.JSON(http.StatusOK, gin.H{"success": true, "count": len(awards)})
}

// handleWS upgrades to a WebSocket and forwards the user's collection-changed
// events until the client goes away.
func (s *Server) handleWS(c *gin.Context) {
	userID, _ := currentUser(c)

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", err, nil)
		return
	}

	events, cancel := s.hub.Subscribe(userID.String())

	// Reader goroutine: the client never sends application data; reading
	// only detects the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		defer cancel()
		defer conn.Close()
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()
}
