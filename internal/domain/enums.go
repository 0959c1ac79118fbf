package domain

// Perfil do motorista: define quais fórmulas de custo se aplicam
type DriverProfile string

const (
	ProfileOwnPaid     DriverProfile = "own_paid"     // Carro próprio quitado
	ProfileOwnFinanced DriverProfile = "own_financed" // Carro próprio financiado
	ProfileRented      DriverProfile = "rented"       // Carro alugado (Localiza, Movida, Kovi)
	ProfileHybrid      DriverProfile = "hybrid"       // Híbrido (uso pessoal + apps)
)

// OwnsCar indica se o perfil carrega depreciação de veículo próprio.
func (p DriverProfile) OwnsCar() bool {
	return p == ProfileOwnPaid || p == ProfileOwnFinanced || p == ProfileHybrid
}

func (p DriverProfile) Valid() bool {
	switch p {
	case ProfileOwnPaid, ProfileOwnFinanced, ProfileRented, ProfileHybrid:
		return true
	}
	return false
}

// Tipos de despesas variáveis
type ExpenseType string

const (
	ExpenseFuel                  ExpenseType = "fuel"
	ExpenseMaintenancePreventive ExpenseType = "maintenance_preventive"
	ExpenseMaintenanceCorrective ExpenseType = "maintenance_corrective"
	ExpenseTires                 ExpenseType = "tires"
	ExpenseCleaning              ExpenseType = "cleaning"
	ExpenseToll                  ExpenseType = "toll"
	ExpenseParking               ExpenseType = "parking"
	ExpenseAppFee                ExpenseType = "app_fee"
	ExpenseOther                 ExpenseType = "other"
)

// Tipos de custos fixos
type FixedCostType string

const (
	FixedCostFinancing    FixedCostType = "financing"
	FixedCostRental       FixedCostType = "rental"
	FixedCostInsurance    FixedCostType = "insurance"
	FixedCostTracker      FixedCostType = "tracker"
	FixedCostIPVA         FixedCostType = "ipva"
	FixedCostPhonePlan    FixedCostType = "phone_plan"
	FixedCostPeriodicWash FixedCostType = "periodic_wash"
	FixedCostOther        FixedCostType = "other"
)

// Frequência de pagamento de custos fixos
type CostFrequency string

const (
	FrequencyDaily   CostFrequency = "daily"
	FrequencyWeekly  CostFrequency = "weekly"
	FrequencyMonthly CostFrequency = "monthly"
	FrequencyYearly  CostFrequency = "yearly"
)

func (f CostFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// WeeksPerMonth é a constante de conversão semana↔mês (~4.33 semanas/mês).
const WeeksPerMonth = 4.33
