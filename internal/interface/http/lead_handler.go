package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/salesloop/salesloop-api/internal/application"
	"github.com/salesloop/salesloop-api/pkg/response"
	"github.com/salesloop/salesloop-api/pkg/validation"
)

type LeadHandler struct {
	Svc        *application.LeadService
	Conversion *application.ConversionService
	Logger     *logrus.Logger
}

func NewLeadHandler(svc *application.LeadService, conversion *application.ConversionService, logger *logrus.Logger) *LeadHandler {
	return &LeadHandler{Svc: svc, Conversion: conversion, Logger: logger}
}

type createLeadRequest struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Phone  string `json:"phone"`
	Source string `json:"source"`
	Status string `json:"status" binding:"omitempty,oneof=new contacted converted"`
	Notes  string `json:"notes"`
}

func (h *LeadHandler) Create(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	lead, err := h.Svc.CreateLead(c.Request.Context(), c.GetString("userID"), application.CreateLeadInput{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Source: req.Source,
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, leadView(lead), "lead created", nil)
}

func (h *LeadHandler) List(c *gin.Context) {
	items, err := h.Svc.ListLeads(c.Request.Context(), c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]gin.H, 0, len(items))
	for i := range items {
		v := leadView(&items[i].Lead)
		if items[i].Contact != nil {
			v["contact"] = contactView(items[i].Contact)
		}
		out = append(out, v)
	}
	response.Success(c, http.StatusOK, out, "leads", gin.H{"count": len(out)})
}

// Convert turns a lead into a contact. The operation is duplicate-guarded:
// repeating it (double-click, retried request) returns 400 without
// creating a second contact.
func (h *LeadHandler) Convert(c *gin.Context) {
	leadID := c.Param("id")
	if leadID == "" {
		response.Error(c, http.StatusBadRequest, "missing lead id", nil)
		return
	}

	contact, err := h.Conversion.Convert(c.Request.Context(), leadID, c.GetString("userID"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, contactView(contact), "lead converted", nil)
}
