package render

import (
	"bytes"
	"html/template"

	"beauty/advisor/internal/domain"
)

const Greeting = "👋 Hello! I'm your L'Oréal Beauty Assistant. Ask me about skincare routines, makeup tips, or product recommendations!"

type CategoryOption struct {
	Value    string
	Label    string
	Selected bool
}

type PageData struct {
	ChatID     string
	Filter     domain.Filter
	Categories []CategoryOption
	Fragments  Fragments
}

// CategoryOptions lists the selector entries with the current one marked
func CategoryOptions(current domain.Category) []CategoryOption {
	options := make([]CategoryOption, 0, len(domain.Categories)+1)
	options = append(options, CategoryOption{
		Value:    "",
		Label:    domain.CategoryAll.GetCategoryName(),
		Selected: current == domain.CategoryAll,
	})
	for _, c := range domain.Categories {
		options = append(options, CategoryOption{
			Value:    c.String(),
			Label:    c.GetCategoryName(),
			Selected: c == current,
		})
	}
	return options
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>L'Oréal Routine Builder</title>
    <style>
      body { margin: 0; font-family: system-ui, -apple-system, "Segoe UI", Roboto, sans-serif; color: #1a1a1a; }
      .page-wrapper { max-width: 1100px; margin: 0 auto; padding: 24px; }
      .search-section { display: flex; gap: 12px; margin-bottom: 20px; }
      .search-section select, .search-section input { flex: 1; padding: 10px; font-size: 16px; }
      #productsContainer { display: grid; grid-template-columns: repeat(auto-fill, minmax(240px, 1fr)); gap: 16px; }
      .product-card { border: 2px solid #ddd; border-radius: 8px; padding: 12px; cursor: pointer; display: flex; gap: 12px; }
      .product-card.selected { border-color: #e3a535; box-shadow: 0 0 0 2px #e3a535; }
      .product-card img { width: 90px; height: 90px; object-fit: contain; }
      .product-desc { display: none; font-size: 14px; margin-top: 8px; }
      .product-desc.expanded { display: block; }
      .placeholder-message { color: #666; padding: 20px; text-align: center; }
      .selected-products { margin: 24px 0; }
      #selectedProductsList { display: flex; flex-wrap: wrap; gap: 8px; margin-bottom: 12px; }
      .selected-product-item { background: #f5f5f5; border-radius: 16px; padding: 6px 12px; }
      .selected-product-item button { border: none; background: none; cursor: pointer; font-size: 16px; }
      .chatbox { border: 2px solid #000; border-radius: 8px; padding: 16px; }
      .chat-window { height: 320px; overflow-y: auto; white-space: pre-wrap; margin-bottom: 12px; }
      .msg { margin: 8px 0; }
      .msg.user { font-weight: 600; }
      .chat-form { display: flex; gap: 8px; }
      .chat-form input { flex: 1; padding: 10px; font-size: 16px; }
    </style>
  </head>
  <body>
    <div class="page-wrapper">
      <header><h1>Smart Routine &amp; Product Advisor</h1></header>

      <div class="search-section">
        <select id="categoryFilter">
          {{- range .Categories}}
          <option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
          {{- end}}
        </select>
        <input type="text" id="productSearch" placeholder="Search products..." value="{{.Filter.Search}}" />
      </div>

      <div id="productsContainer" class="products-grid">{{.Fragments.Grid}}</div>

      <section class="selected-products">
        <h2>Selected Products</h2>
        <div id="selectedProductsList">{{.Fragments.Selected}}</div>
        <button id="generateRoutine" class="generate-btn">Generate Routine</button><br>
        <button id="clearAll" class="clear-all-btn">Clear All</button>
      </section>

      <section class="chatbox">
        <h2>Let's Build Your Routine</h2>
        <div id="chatWindow" class="chat-window"><div class="msg ai">{{.Greeting}}</div></div>
        <form id="chatForm" class="chat-form" data-chat-id="{{.ChatID}}">
          <input type="text" id="userInput" placeholder="Ask me about products or routines…" autocomplete="off" required />
          <button type="submit" id="sendBtn">Send</button>
        </form>
      </section>
    </div>

    <script>
      (function () {
        var ASSISTANT = "L'Oréal Assistant: ";
        var state = { category: "", q: "", open: [] };

        var categoryFilter = document.getElementById("categoryFilter");
        var productSearch = document.getElementById("productSearch");
        var productsContainer = document.getElementById("productsContainer");
        var selectedList = document.getElementById("selectedProductsList");
        var chatForm = document.getElementById("chatForm");
        var chatWindow = document.getElementById("chatWindow");
        var userInput = document.getElementById("userInput");
        var chatId = chatForm.getAttribute("data-chat-id");

        state.category = categoryFilter.value;
        state.q = productSearch.value;

        // Actions run one at a time, each built from the state left by the
        // previous response. Only the newest response touches the DOM.
        var pending = Promise.resolve();
        var requestSeq = 0;

        function swap(id, data) {
          state.open = data.open || [];
          if (id !== requestSeq) {
            return;
          }
          productsContainer.innerHTML = data.grid;
          selectedList.innerHTML = data.selected;
        }

        function dispatch(type, name, value) {
          var id = ++requestSeq;
          pending = pending.then(function () {
            return fetch("/api/actions", {
              method: "POST",
              headers: { "Content-Type": "application/json" },
              body: JSON.stringify({
                type: type,
                name: name || "",
                value: value || "",
                category: state.category,
                q: state.q,
                open: state.open
              })
            }).then(function (resp) { return resp.json(); }).then(function (data) {
              swap(id, data);
            });
          }).catch(function () {});
          return pending;
        }

        categoryFilter.addEventListener("change", function () {
          state.category = categoryFilter.value;
          dispatch("set_category", "", categoryFilter.value);
        });
        productSearch.addEventListener("input", function () {
          state.q = productSearch.value;
          dispatch("set_search", "", productSearch.value);
        });
        productsContainer.addEventListener("click", function (e) {
          var toggle = e.target.closest(".desc-toggle-btn");
          if (toggle) {
            e.stopPropagation();
            dispatch("toggle_description", toggle.getAttribute("data-name"));
            return;
          }
          var card = e.target.closest(".product-card");
          if (card) {
            dispatch("toggle", card.getAttribute("data-name"));
          }
        });
        selectedList.addEventListener("click", function (e) {
          var remove = e.target.closest("button[data-name]");
          if (remove) {
            dispatch("remove", remove.getAttribute("data-name"));
          }
        });
        document.getElementById("clearAll").addEventListener("click", function () {
          dispatch("clear");
        });

        var thinking = null;
        var current = null;

        function addMessage(text, isUser) {
          var div = document.createElement("div");
          div.classList.add("msg", isUser ? "user" : "ai");
          div.textContent = isUser ? "You: " + text : ASSISTANT + text;
          chatWindow.appendChild(div);
          chatWindow.scrollTop = chatWindow.scrollHeight;
          return div;
        }

        function apply(frame) {
          switch (frame.kind) {
            case "user":
              addMessage(frame.text, true);
              break;
            case "thinking":
              thinking = addMessage(frame.text, false);
              break;
            case "clear_thinking":
              if (thinking && thinking.parentNode) {
                chatWindow.removeChild(thinking);
              }
              thinking = null;
              break;
            case "typing":
            case "assistant":
              if (!current) {
                current = addMessage("", false);
              }
              current.textContent = ASSISTANT + frame.text;
              chatWindow.scrollTop = chatWindow.scrollHeight;
              break;
            case "notice":
              addMessage(frame.text, false);
              break;
            case "done":
              current = null;
              break;
          }
        }

        function stream(url, payload) {
          return fetch(url, {
            method: "POST",
            headers: { "Content-Type": "application/json", "Accept": "text/event-stream" },
            body: JSON.stringify(payload)
          }).then(function (resp) {
            if (!resp.ok) {
              addMessage("Sorry, this chat has expired. Please reload the page.", false);
              return;
            }
            var reader = resp.body.getReader();
            var decoder = new TextDecoder();
            var buffer = "";
            function pump() {
              return reader.read().then(function (res) {
                if (res.done) {
                  return;
                }
                buffer += decoder.decode(res.value, { stream: true });
                var events = buffer.split("\n\n");
                buffer = events.pop();
                events.forEach(function (ev) {
                  ev.split("\n").forEach(function (line) {
                    if (line.indexOf("data: ") === 0) {
                      apply(JSON.parse(line.slice(6)));
                    }
                  });
                });
                return pump();
              });
            }
            return pump();
          });
        }

        chatForm.addEventListener("submit", function (e) {
          e.preventDefault();
          var message = userInput.value.trim();
          if (!message) {
            return;
          }
          userInput.value = "";
          stream("/api/chat/message", { chatId: chatId, message: message });
        });
        document.getElementById("generateRoutine").addEventListener("click", function () {
          stream("/api/chat/routine", { chatId: chatId });
        });
      })();
    </script>
  </body>
</html>
`))

// Page renders the whole document
func Page(data PageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, struct {
		PageData
		Greeting string
	}{data, Greeting}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
