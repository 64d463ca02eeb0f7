package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/salesloop/salesloop-api/internal/domain/entity"
)

func leadView(l *entity.Lead) gin.H {
	return gin.H{
		"id":         l.ID,
		"name":       l.Name,
		"email":      l.Email,
		"phone":      l.Phone,
		"source":     l.Source,
		"status":     l.Status,
		"notes":      l.Notes,
		"user_id":    l.UserID,
		"created_at": l.CreatedAt,
		"updated_at": l.UpdatedAt,
	}
}

func contactView(c *entity.Contact) gin.H {
	return gin.H{
		"id":         c.ID,
		"name":       c.Name,
		"email":      c.Email,
		"phone":      c.Phone,
		"status":     c.Status,
		"notes":      c.Notes,
		"avatar_url": c.AvatarURL,
		"user_id":    c.UserID,
		"lead_id":    c.LeadID,
		"created_at": c.CreatedAt,
		"updated_at": c.UpdatedAt,
	}
}

func stageView(s *entity.PipelineStage) gin.H {
	return gin.H{
		"id":    s.ID,
		"name":  s.Name,
		"color": s.Color,
		"order": s.SortOrder,
	}
}

func dealView(d *entity.Deal) gin.H {
	v := gin.H{
		"id":         d.ID,
		"title":      d.Title,
		"value":      d.Value,
		"status":     d.Status,
		"stage_id":   d.StageID,
		"contact_id": d.ContactID,
		"user_id":    d.UserID,
		"close_date": d.CloseDate,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}
	if d.Contact != nil {
		v["contact"] = gin.H{"id": d.Contact.ID, "name": d.Contact.Name, "email": d.Contact.Email}
	}
	if d.Stage != nil {
		v["stage"] = stageView(d.Stage)
	}
	return v
}

func activityView(a *entity.ActivityLog) gin.H {
	return gin.H{
		"id":          a.ID,
		"type":        a.Type,
		"description": a.Description,
		"deal_id":     a.DealID,
		"contact_id":  a.ContactID,
		"user_id":     a.UserID,
		"created_at":  a.CreatedAt,
	}
}
