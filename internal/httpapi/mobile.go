package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kimobot/backend/internal/apperrors"
	"github.com/kimobot/backend/internal/domain"
)

// mobileAuthHandler identifica o usuário pelo telefone já cadastrado no
// bot. Sem senha: o pareamento é feito pelo próprio número do WhatsApp.
func mobileAuthHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Phone string `json:"phone" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "telefone é obrigatório"})
			return
		}

		phone, err := domain.NormalizePhone(req.Phone)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "telefone inválido"})
			return
		}

		user, err := deps.Users.FindByPhone(c.Request.Context(), phone)
		if err != nil {
			deps.Log.WithError(err).Error("mobile auth lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno"})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "usuário não encontrado; cadastre-se pelo WhatsApp primeiro"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"user_id":     user.ID,
			"name":        user.Name,
			"phone":       domain.FormatPhone(user.Phone),
			"weekly_goal": user.WeeklyGoal,
		})
	}
}

// mobileCriteriaHandler devolve os parâmetros de custo que o app usa na
// avaliação offline de corridas.
func mobileCriteriaHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userId")

		config, err := deps.Configs.FindByUserID(c.Request.Context(), userID)
		if err != nil {
			deps.Log.WithError(err).Error("mobile criteria lookup failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno"})
			return
		}
		if config == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "configuração não encontrada"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"profile":            config.Profile,
			"fuel_cost_per_km":   domain.Round2(config.FuelCostPerKm()),
			"fuel_consumption":   config.FuelConsumption,
			"avg_fuel_price":     config.AvgFuelPrice,
			"car_value":          config.CarValue,
			"work_days_per_week": config.WorkDaysPerWeek,
		})
	}
}

// mobileAnalyzeHandler avalia uma corrida candidata, o mesmo cálculo do
// comando "vale" no chat.
func mobileAnalyzeHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			UserID   string  `json:"user_id" binding:"required"`
			Earnings float64 `json:"earnings" binding:"required"`
			Km       float64 `json:"km" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_id, earnings e km são obrigatórios"})
			return
		}

		out, err := deps.EvaluateTrip.Execute(c.Request.Context(), req.UserID, req.Earnings, req.Km)
		if err != nil {
			switch apperrors.KindOf(err) {
			case apperrors.KindValidation:
				c.JSON(http.StatusBadRequest, gin.H{"error": "valores inválidos"})
			case apperrors.KindMissingConfig:
				c.JSON(http.StatusNotFound, gin.H{"error": "configuração não encontrada"})
			default:
				deps.Log.WithError(err).Error("mobile analyze failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "erro interno"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"earnings":          out.Earnings,
			"km":                out.Km,
			"fuel_cost":         out.FuelCost,
			"depreciation_cost": out.DepreciationCost,
			"maintenance_cost":  out.MaintenanceCost,
			"total_cost":        out.TotalCost,
			"profit":            out.Profit,
			"profit_per_km":     out.ProfitPerKm,
			"recommendation":    out.Recommendation,
		})
	}
}
