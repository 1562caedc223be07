// Command formedit-cli opens a saved admin form page and runs an
// interactive editing session against it: add, remove, and reorder
// collection items, then emit the submission values or the re-rendered
// page.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	formedit "github.com/skribblez2718/byob"
	"github.com/skribblez2718/byob/pkg/collection"
	"github.com/skribblez2718/byob/pkg/remotesync"
	"github.com/skribblez2718/byob/pkg/reorder"
)

func main() {
	page := flag.String("page", "", "path to a served admin form page")
	output := flag.String("output", "", "write the re-rendered page here on exit (stdout if empty)")
	endpoint := flag.String("reorder-endpoint", remotesync.DefaultEndpoint, "projects reorder endpoint")
	flag.Parse()

	if *page == "" {
		log.Fatal("missing -page")
	}
	f, err := os.Open(*page)
	if err != nil {
		log.Fatalf("open page: %v", err)
	}
	defer f.Close()

	editor, err := formedit.Bind(f, formedit.WithReorderClient(notifyingClient(*endpoint)))
	if err != nil {
		log.Fatalf("bind page: %v", err)
	}

	if err := runSession(context.Background(), editor); err != nil {
		log.Fatalf("session: %v", err)
	}

	html, err := editor.RenderPage()
	if err != nil {
		log.Fatalf("render page: %v", err)
	}
	if *output != "" {
		if err := os.WriteFile(*output, []byte(html), 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Page written to %s\n", *output)
	} else {
		fmt.Println(html)
	}
}

func notifyingClient(endpoint string) *remotesync.Client {
	return remotesync.New(
		remotesync.WithEndpoint(endpoint),
		remotesync.WithNotifier(remotesync.NotifierFunc(func(n remotesync.Notification) {
			fmt.Printf("[%s] %s\n", n.Level, n.Message)
		})),
	)
}

func runSession(ctx context.Context, editor *formedit.Editor) error {
	for {
		action, err := ask(&survey.Select{
			Message: "Action:",
			Options: []string{"show", "add", "add accomplishment", "remove", "move", "validate", "submission", "done"},
		})
		if err != nil {
			return err
		}
		switch action {
		case "show":
			err = show(editor)
		case "add":
			err = addItem(editor)
		case "add accomplishment":
			err = addAccomplishment(editor)
		case "remove":
			err = removeItem(editor)
		case "move":
			err = moveItem(ctx, editor)
		case "validate":
			err = validate(editor)
		case "submission":
			err = submission(editor)
		case "done":
			return nil
		}
		if errors.Is(err, terminal.InterruptErr) {
			return nil
		}
		if err != nil {
			fmt.Printf("error: %v\n", err)
		}
	}
}

func pickKind(editor *formedit.Editor) (collection.Kind, error) {
	kinds, err := collection.Kinds()
	if err != nil {
		return "", err
	}
	var present []string
	for _, kind := range kinds {
		if editor.Collection(kind) != nil {
			present = append(present, string(kind))
		}
	}
	picked, err := ask(&survey.Select{Message: "Collection:", Options: present})
	if err != nil {
		return "", err
	}
	return collection.Kind(picked), nil
}

func show(editor *formedit.Editor) error {
	kind, err := pickKind(editor)
	if err != nil {
		return err
	}
	c := editor.Collection(kind)
	for pos, it := range c.Items() {
		fmt.Printf("%2d [index %d] ", pos, it.Index())
		for _, f := range it.Fields {
			if f.Value != "" && f.Input != collection.InputHidden {
				fmt.Printf("%s=%q ", f.Field, f.Value)
			}
		}
		fmt.Println()
		for _, acc := range it.Accomplishments {
			text, _ := acc.Value("accomplishment_text")
			fmt.Printf("     - [index %d] %q\n", acc.Index(), text)
		}
	}
	return nil
}

func addItem(editor *formedit.Editor) error {
	kind, err := pickKind(editor)
	if err != nil {
		return err
	}
	values, err := promptFields(editor.Collection(kind).Schema())
	if err != nil {
		return err
	}
	it, err := editor.AddItem(kind, values)
	if err != nil {
		return err
	}
	fmt.Printf("added %s at index %d\n", kind, it.Index())
	return nil
}

func promptFields(schema collection.Schema) (map[string]string, error) {
	values := make(map[string]string)
	for _, def := range schema.Fields {
		if def.Field == schema.DeleteField {
			continue
		}
		switch def.Input {
		case collection.InputHidden, collection.InputNumber:
			// Order fields are assigned by the collection.
			continue
		case collection.InputFile:
			// File payloads travel outside the field-name space.
			continue
		case collection.InputSelect:
			options := make([]string, len(def.Options))
			for i, opt := range def.Options {
				options[i] = opt.Value
			}
			picked, err := ask(&survey.Select{Message: def.Field + ":", Options: options})
			if err != nil {
				return nil, err
			}
			values[def.Field] = picked
		case collection.InputCheckbox:
			var checked bool
			if err := survey.AskOne(&survey.Confirm{Message: def.Field + "?"}, &checked); err != nil {
				return nil, err
			}
			if checked {
				values[def.Field] = "y"
			}
		default:
			entered, err := ask(&survey.Input{Message: def.Field + ":", Default: def.Default})
			if err != nil {
				return nil, err
			}
			values[def.Field] = entered
		}
	}
	return values, nil
}

func addAccomplishment(editor *formedit.Editor) error {
	work := editor.Collection(collection.KindWork)
	if work == nil {
		return fmt.Errorf("no work history on this page")
	}
	pos, err := pickPosition("Work item:", work.Len())
	if err != nil {
		return err
	}
	text, err := ask(&survey.Input{Message: "accomplishment_text:"})
	if err != nil {
		return err
	}
	acc, err := editor.AddAccomplishment(pos, map[string]string{"accomplishment_text": text})
	if err != nil {
		return err
	}
	fmt.Printf("added accomplishment at index %d\n", acc.Index())
	return nil
}

func removeItem(editor *formedit.Editor) error {
	kind, err := pickKind(editor)
	if err != nil {
		return err
	}
	c := editor.Collection(kind)
	if c.Len() == 0 {
		return fmt.Errorf("nothing to remove")
	}
	pos, err := pickPosition("Remove position:", c.Len())
	if err != nil {
		return err
	}
	return editor.RemoveItem(kind, pos)
}

func moveItem(ctx context.Context, editor *formedit.Editor) error {
	kind, err := pickKind(editor)
	if err != nil {
		return err
	}
	c := editor.Collection(kind)
	if c.Len() < 2 {
		return fmt.Errorf("need at least two items to reorder")
	}
	from, err := pickPosition("Move from:", c.Len())
	if err != nil {
		return err
	}
	target, err := pickPosition("Drop on:", c.Len())
	if err != nil {
		return err
	}
	after, err := confirm("Insert after the target?")
	if err != nil {
		return err
	}

	if err := editor.DragStart(kind, from); err != nil {
		return err
	}
	// Synthesize the pointer position relative to the target's midpoint.
	drop := reorder.Target{Position: target, Top: 0, Height: 2, PointerY: 0}
	if after {
		drop.PointerY = 2
	}
	if err := editor.Drop(kind, drop); err != nil {
		return err
	}
	if kind == collection.KindProject {
		if err := editor.PushProjectOrder(ctx); err != nil {
			// The notifier already reported it; the local order stands.
			return nil
		}
	}
	return nil
}

func validate(editor *formedit.Editor) error {
	issues := editor.Validate()
	if len(issues) == 0 {
		fmt.Println("content blocks valid")
		return nil
	}
	for _, issue := range issues {
		fmt.Printf("block %d %s: %s\n", issue.Position, issue.Field, issue.Message)
	}
	return nil
}

func submission(editor *formedit.Editor) error {
	fmt.Println(editor.SubmissionValues().Encode())
	return nil
}

func pickPosition(message string, n int) (int, error) {
	options := make([]string, n)
	for i := range options {
		options[i] = strconv.Itoa(i)
	}
	picked, err := ask(&survey.Select{Message: message, Options: options})
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(picked)
}

func ask(prompt survey.Prompt) (string, error) {
	var out string
	if err := survey.AskOne(prompt, &out); err != nil {
		return "", err
	}
	return out, nil
}

func confirm(message string) (bool, error) {
	var out bool
	if err := survey.AskOne(&survey.Confirm{Message: message}, &out); err != nil {
		return false, err
	}
	return out, nil
}
