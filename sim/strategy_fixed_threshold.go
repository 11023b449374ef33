package sim

const (
	defaultFixedThreshold  = 70
	defaultFixedOrderUnits = 50
	reasonFixedThreshold   = "fixed_threshold_triggered"
)

// FixedThresholdStrategy is a rule-based alternative that ignores product
// parameters: when on_hand < threshold and nothing is on order, buy a fixed
// quantity, from a fixed supplier if one is configured.
type FixedThresholdStrategy struct {
	threshold  int
	orderUnits int
	supplierID string
}

// NewFixedThresholdStrategy creates the rule. Non-positive threshold or units
// select 70 and 50.
func NewFixedThresholdStrategy(threshold, orderUnits int, supplierID string) *FixedThresholdStrategy {
	if threshold <= 0 {
		threshold = defaultFixedThreshold
	}
	if orderUnits <= 0 {
		orderUnits = defaultFixedOrderUnits
	}
	return &FixedThresholdStrategy{threshold: threshold, orderUnits: orderUnits, supplierID: supplierID}
}

func (s *FixedThresholdStrategy) Name() string { return StrategyFixedThreshold }

func (s *FixedThresholdStrategy) Decide(state *SimulationState, catalog *Catalog) []OrderDecision {
	var decisions []OrderDecision
	for _, pos := range state.Inventory.Positions() {
		if pos.OnHand >= s.threshold || pos.OnOrder != 0 {
			continue
		}
		supplierID := s.supplierID
		if supplierID == "" {
			product, err := catalog.Product(pos.Key.ProductID)
			if err != nil {
				continue
			}
			supplierID = product.SupplierID
		}
		decisions = append(decisions, OrderDecision{
			ProductID:   pos.Key.ProductID,
			WarehouseID: pos.Key.WarehouseID,
			SupplierID:  supplierID,
			Units:       s.orderUnits,
			Reason:      reasonFixedThreshold,
			Metadata: map[string]float64{
				"threshold": float64(s.threshold),
				"inventory": float64(pos.OnHand),
			},
		})
	}
	return decisions
}
