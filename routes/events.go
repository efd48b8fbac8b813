package routes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventmanagement/middlewares"
	"eventmanagement/models"
)

/* -------------------- Events -------------------- */

// GET /events/getEvents
func (d *deps) getEvents(c *gin.Context) {
	events, err := d.events.List(c.Request.Context())
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// POST /events/eventInsert
func (d *deps) createEvent(c *gin.Context) {
	var in models.EventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c)
		return
	}

	event, err := d.events.Create(c.Request.Context(), in)
	if err != nil {
		if !validationFailed(c, err) {
			serverError(c, err)
		}
		return
	}

	// listing changed: drop cached copies
	d.inv.PurgeEventsList(c.Request.Context())
	c.JSON(http.StatusCreated, gin.H{"msg": "Event created", "event": event})
}

// PUT /events/updateEvent/:id
func (d *deps) updateEvent(c *gin.Context) {
	// an empty body is an empty patch: the lookup still decides 404 vs 200
	var in models.EventInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c)
			return
		}
	}

	event, err := d.events.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"msg": "Event not found"})
		case validationFailed(c, err):
		default:
			serverError(c, err)
		}
		return
	}

	d.inv.PurgeEventsList(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"msg": "Event updated", "event": event})
}

// DELETE /events/deleteEvent/:id
func (d *deps) deleteEvent(c *gin.Context) {
	event, err := d.events.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Event not found"})
			return
		}
		serverError(c, err)
		return
	}

	d.inv.PurgeEventsList(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"msg": "Event deleted successfully", "event": event})
}

/* --------------------- RSVP --------------------- */

// POST /events/rsvp/:id
func (d *deps) submitRSVP(c *gin.Context) {
	var req struct {
		Status models.RSVPStatus `json:"status"`
	}
	// an empty body means Maybe
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c)
			return
		}
	}

	rsvp, err := d.events.SubmitRSVP(c.Request.Context(), c.GetString(middlewares.CtxUserID), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"msg": "Event or user not found"})
		case validationFailed(c, err):
		default:
			serverError(c, err)
		}
		return
	}

	// rsvps are part of the listed documents
	d.inv.PurgeEventsList(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"msg": "RSVP saved", "rsvp": rsvp})
}
