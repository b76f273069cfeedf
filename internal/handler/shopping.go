package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/eco-abhi/hearth/internal/model"
	"github.com/eco-abhi/hearth/internal/store"
	"github.com/eco-abhi/hearth/internal/websocket"
)

type ShoppingHandler struct {
	store *store.ShoppingStore
	hub   *websocket.Hub
}

func NewShoppingHandler(s *store.ShoppingStore, hub *websocket.Hub) *ShoppingHandler {
	return &ShoppingHandler{store: s, hub: hub}
}

func (h *ShoppingHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// --- Stores ---

func (h *ShoppingHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.store.ListStores()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list stores"})
		return
	}
	if stores == nil {
		stores = []model.ShoppingStore{}
	}
	writeJSON(w, http.StatusOK, stores)
}

func (h *ShoppingHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Color == "" {
		req.Color = "#3B82F6"
	}
	if !hexColorRegexp.MatchString(req.Color) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "color must be a hex color (e.g. #FF0000)"})
		return
	}

	st, err := h.store.CreateStore(req.Name, req.Color)
	if err != nil {
		log.Printf("failed to create store: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create store"})
		return
	}

	h.broadcast(websocket.NewMessage("store", "created", st.ID, nil))
	writeJSON(w, http.StatusCreated, st)
}

func (h *ShoppingHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetStoreByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get store"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "store not found"})
		return
	}

	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = existing.Name
	}
	if req.Color == "" {
		req.Color = existing.Color
	}
	if !hexColorRegexp.MatchString(req.Color) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "color must be a hex color (e.g. #FF0000)"})
		return
	}

	st, err := h.store.UpdateStore(id, req.Name, req.Color)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update store"})
		return
	}

	h.broadcast(websocket.NewMessage("store", "updated", st.ID, nil))
	writeJSON(w, http.StatusOK, st)
}

func (h *ShoppingHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetStoreByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get store"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "store not found"})
		return
	}

	if err := h.store.DeleteStore(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete store"})
		return
	}

	h.broadcast(websocket.NewMessage("store", "deleted", id, nil))
	w.WriteHeader(http.StatusNoContent)
}

// --- Items ---

func parseStoreIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("storeID"), 10, 64)
}

func (h *ShoppingHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	storeID, err := parseStoreIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid store id"})
		return
	}

	st, err := h.store.GetStoreByID(storeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get store"})
		return
	}
	if st == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "store not found"})
		return
	}

	items, err := h.store.ListItems(storeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list items"})
		return
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ShoppingHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	storeID, err := parseStoreIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid store id"})
		return
	}

	st, err := h.store.GetStoreByID(storeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get store"})
		return
	}
	if st == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "store not found"})
		return
	}

	var req struct {
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	item, err := h.store.CreateItem(storeID, req.Name, strings.TrimSpace(req.Quantity))
	if err != nil {
		log.Printf("failed to create item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create item"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "created", item.ID, map[string]any{"store_id": storeID}))
	writeJSON(w, http.StatusCreated, item)
}

func (h *ShoppingHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetItemByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	var req struct {
		Name     string `json:"name"`
		Quantity string `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		req.Name = existing.Name
	}

	item, err := h.store.UpdateItem(id, req.Name, strings.TrimSpace(req.Quantity))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update item"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "updated", item.ID, map[string]any{"store_id": item.StoreID}))
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.store.GetItemByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get item"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	if err := h.store.DeleteItem(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete item"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "deleted", id, map[string]any{"store_id": existing.StoreID}))
	w.WriteHeader(http.StatusNoContent)
}

func (h *ShoppingHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	item, err := h.store.ToggleChecked(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to toggle item"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "updated", item.ID, map[string]any{"store_id": item.StoreID}))
	writeJSON(w, http.StatusOK, item)
}

// MoveItem transfers an item to another store. The item is recreated at the
// destination: the response carries a new id and an unchecked state.
func (h *ShoppingHandler) MoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		StoreID int64 `json:"store_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	dest, err := h.store.GetStoreByID(req.StoreID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get store"})
		return
	}
	if dest == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "destination store not found"})
		return
	}

	item, err := h.store.MoveItem(id, req.StoreID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to move item"})
		return
	}
	if item == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "moved", item.ID, map[string]any{"store_id": item.StoreID}))
	writeJSON(w, http.StatusOK, item)
}

func (h *ShoppingHandler) ClearChecked(w http.ResponseWriter, r *http.Request) {
	storeID, err := parseStoreIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid store id"})
		return
	}

	count, err := h.store.ClearChecked(storeID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to clear checked items"})
		return
	}

	h.broadcast(websocket.NewMessage("shopping_item", "cleared", storeID, map[string]any{"count": count}))
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": count})
}
