package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/bh-assurance/agent-cli/internal/dataset"
	"github.com/bh-assurance/agent-cli/internal/model"
)

var customersCmd = &cobra.Command{
	Use:   "customers",
	Short: "Browse the customer dataset",
	Long:  "Commands for listing, searching, and inspecting customers loaded from the bulk dataset.",
}

// -- customers list --

var customersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List customers matching the given criteria",
	RunE: func(cmd *cobra.Command, _ []string) error {
		records, err := loadRecords()
		if err != nil {
			return err
		}

		profession, _ := cmd.Flags().GetString("profession")
		sector, _ := cmd.Flags().GetString("sector")
		location, _ := cmd.Flags().GetString("location")
		ageMin, _ := cmd.Flags().GetInt("age-min")
		ageMax, _ := cmd.Flags().GetInt("age-max")
		limit, _ := cmd.Flags().GetInt("limit")

		customers := records.Search(dataset.Criteria{
			Profession: profession,
			Sector:     sector,
			Location:   location,
			AgeMin:     ageMin,
			AgeMax:     ageMax,
		})
		if limit > 0 && len(customers) > limit {
			customers = customers[:limit]
		}

		if len(customers) == 0 {
			fmt.Fprintln(os.Stderr, "No customers found.")
			return nil
		}

		formatCustomersList(os.Stdout, customers)
		return nil
	},
}

// -- customers show --

var customersShowCmd = &cobra.Command{
	Use:   "show <customer-id>",
	Short: "Show a customer with contracts, guarantees, and claims",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := loadRecords()
		if err != nil {
			return err
		}

		customer, err := records.CustomerByID(args[0])
		if err != nil {
			return eris.Wrapf(err, "customers show %s", args[0])
		}

		out := model.CustomerProfile{
			Customer:   customer,
			Contracts:  records.ContractsByCustomer(customer.ID),
			Guarantees: records.GuaranteesByCustomer(customer.ID),
			Claims:     records.ClaimsByCustomer(customer.ID),
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	customersListCmd.Flags().String("profession", "", "filter individuals by profession")
	customersListCmd.Flags().String("sector", "", "filter by activity sector")
	customersListCmd.Flags().String("location", "", "filter by location")
	customersListCmd.Flags().Int("age-min", 0, "minimum age (individuals only)")
	customersListCmd.Flags().Int("age-max", 0, "maximum age (individuals only)")
	customersListCmd.Flags().Int("limit", 50, "max number of customers to display")

	customersCmd.AddCommand(customersListCmd)
	customersCmd.AddCommand(customersShowCmd)
	rootCmd.AddCommand(customersCmd)
}

// loadRecords loads the dataset configured for this invocation.
func loadRecords() (*dataset.Store, error) {
	records, err := dataset.Load(cfg.Dataset.Path, dataset.LoadOptions{
		MaxIndividuals:   cfg.Dataset.MaxIndividuals,
		MaxOrganizations: cfg.Dataset.MaxOrganizations,
	})
	if err != nil {
		return nil, eris.Wrap(err, "load dataset")
	}
	return records, nil
}

// formatCustomersList writes a tabular list of customers to w.
func formatCustomersList(out io.Writer, customers []model.Customer) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tKIND\tPROFESSION/SECTOR\tLOCATION")
	_, _ = fmt.Fprintln(w, "--\t----\t----\t-----------------\t--------")

	for _, c := range customers {
		detail := c.Profession()
		if c.Kind == model.KindOrganization {
			detail = c.Sector()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.DisplayName(), c.Kind, detail, c.Location())
	}
	_ = w.Flush()
}
