package adapters

import (
	"github.com/retail-tools/retail-atlas/pkg/models/api"
	"github.com/retail-tools/retail-atlas/pkg/models/domain"
)

func MapSourceProfileDomainToApi(p domain.SourceProfile) api.Source {
	return api.Source{
		Name: p.Name,
		Type: string(p.Type),
	}
}

func MapRFMRecordDomainToApi(r domain.RFMRecord) api.RFMRecord {
	return api.RFMRecord{
		CustomerID: r.CustomerID,
		Recency:    r.Recency,
		Frequency:  r.Frequency,
		Monetary:   r.Monetary,
	}
}

func MapRFMRecordsDomainToApi(records []domain.RFMRecord) []api.RFMRecord {
	res := make([]api.RFMRecord, 0, len(records))
	for _, r := range records {
		res = append(res, MapRFMRecordDomainToApi(r))
	}
	return res
}

func MapMetricStatsDomainToApi(s domain.MetricStats) api.MetricStats {
	return api.MetricStats{
		Min: s.Min,
		Max: s.Max,
		Avg: s.Avg,
	}
}

func MapSummaryDomainToApi(s domain.Summary) api.Summary {
	return api.Summary{
		Customers: s.Customers,
		Recency:   MapMetricStatsDomainToApi(s.Recency),
		Frequency: MapMetricStatsDomainToApi(s.Frequency),
		Monetary:  MapMetricStatsDomainToApi(s.Monetary),
	}
}
