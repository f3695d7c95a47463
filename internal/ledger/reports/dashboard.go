package reports

// BuildDashboard sums per-company stats into the group-wide overview. The
// stats slice arrives in group order (parent first, then subsidiaries by
// name) and is passed through untouched.
func BuildDashboard(stats []CompanyStats) Dashboard {
	d := Dashboard{Companies: stats}
	for _, s := range stats {
		d.Totals.Cash += s.Cash
		d.Totals.Revenue += s.Revenue
		d.Totals.Expenses += s.Expenses
		d.Totals.NetIncome += s.NetIncome
	}
	return d
}
