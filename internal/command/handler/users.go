package command

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"scoreboard/internal/core"
	"scoreboard/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// CLI 操作寫入稽核紀錄時的 actor
const cliActor = "cli"

type UsersHandler struct {
	logger          *zap.Logger
	registryService *service.RegistryService
}

func NewUsersHandler(logger *zap.Logger, registryService *service.RegistryService) *UsersHandler {
	return &UsersHandler{
		logger:          logger,
		registryService: registryService,
	}
}

func (handler *UsersHandler) List(cmd *cobra.Command, blacklistOnly bool) error {
	view := core.RegistryViewAll
	if blacklistOnly {
		view = core.RegistryViewBlacklist
	}
	resp := handler.registryService.ListUsers(cmd.Context(), view)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACCOUNT\tPHONE\tNAME\tLOGIN TIME\tBLACKLISTED")
	for _, u := range resp.Users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%t\n", u.ID, u.Account, u.PhoneNumber, u.Name, u.LoginTime, u.IsBlacklisted)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	cmd.Printf("total %d, blacklisted %d\n", resp.Total, resp.Blacklisted)
	return nil
}

// Export 輸出 JSON；output 為空時寫到 stdout
func (handler *UsersHandler) Export(cmd *cobra.Command, output string) error {
	resp, err := handler.registryService.Export(cmd.Context(), cliActor)
	if err != nil {
		return err
	}
	if output == "" {
		cmd.Println(resp.Content)
		return nil
	}
	if err := os.WriteFile(output, []byte(resp.Content), 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	cmd.Printf("exported to %s\n", output)
	return nil
}

func (handler *UsersHandler) Import(cmd *cobra.Command, file string) error {
	content, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read import file: %w", err)
	}
	resp, err := handler.registryService.Import(cmd.Context(), cliActor, string(content))
	if err != nil {
		return err
	}
	cmd.Printf("%s (%d users)\n", resp.Message, resp.ImportedCount)
	return nil
}

func (handler *UsersHandler) Blacklist(cmd *cobra.Command, key string, blacklisted bool) error {
	resp, err := handler.registryService.SetBlacklisted(cmd.Context(), cliActor, key, blacklisted)
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}

func (handler *UsersHandler) Delete(cmd *cobra.Command, key string) error {
	resp, err := handler.registryService.DeleteUser(cmd.Context(), cliActor, key)
	if err != nil {
		return err
	}
	return printJSON(cmd, resp)
}

func (handler *UsersHandler) Clear(cmd *cobra.Command) {
	handler.registryService.Clear(cmd.Context(), cliActor)
	handler.logger.Warn("registry cleared from cli")
	cmd.Println("registry cleared")
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(b))
	return nil
}

