package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/farmaindex/backend-go/internal/api/middleware"
	"github.com/farmaindex/backend-go/internal/domain"
	"github.com/farmaindex/backend-go/internal/service"
)

type ClientHandler struct {
	clients *service.ClientService
}

func NewClientHandler(clients *service.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clients.List(c.Request.Context(), middleware.OrgID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao listar clientes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientes": clients})
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clients.Get(c.Request.Context(), middleware.OrgID(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao buscar cliente"})
		return
	}
	if client == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cliente não encontrado"})
		return
	}
	c.JSON(http.StatusOK, client)
}

type createClientRequest struct {
	CNPJ  string `json:"cnpj"`
	Name  string `json:"nome_fantasia" binding:"required"`
	City  string `json:"cidade"`
	State string `json:"uf"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payload inválido: nome_fantasia é obrigatório"})
		return
	}

	client := &domain.Client{
		OrgID: middleware.OrgID(c),
		CNPJ:  req.CNPJ,
		Name:  req.Name,
		City:  req.City,
		State: req.State,
	}
	if err := h.clients.Create(c.Request.Context(), client); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "erro ao criar cliente"})
		return
	}
	c.JSON(http.StatusCreated, client)
}
