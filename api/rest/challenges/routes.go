package challenges

import (
	"codeberg.org/serenity/server/api/rest/render"
	"codeberg.org/serenity/server/internal/auth"
	"codeberg.org/serenity/server/internal/profile"
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router gin.IRouter, verifier auth.Verifier, api API, lookup profile.Lookup, maxUploadBytes int64) {
	optional := auth.ConditionalAuth(verifier)
	required := auth.RequireAuth(verifier)
	enrich := profile.Enrich(lookup)

	// gate, enrichment, controller, renderer
	chain := func(gate, controller gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{gate, enrich, controller, render.JSON}
	}

	router.GET("/getActiveChallenges", chain(optional, ActiveChallenges(api))...)
	router.GET("/develop/challenges/:challengeId", chain(optional, Challenge(api))...)
	router.GET("/develop/challenges/checkpoint/:challengeId", chain(optional, Checkpoints())...)
	router.GET("/develop/challenges/result/:challengeId", chain(optional, Results(api))...)
	router.GET("/challenges/:challengeId/documents", chain(optional, Documents(api))...)
	router.GET("/terms/:challengeId", chain(optional, Terms(api))...)
	router.GET("/challenges/:challengeId/files/:fileId/download", chain(optional, FileURL(api))...)
	router.GET("/challenges/:challengeId/submissions/:submissionId/files/:fileId/download", chain(optional, SubmissionFileURL(api))...)

	// authentication mandatory
	router.POST("/challenges/:challengeId/register", chain(required, Register(api))...)
	router.POST("/develop/challenges/:challengeId/upload", chain(required, Upload(api, maxUploadBytes))...)
}
